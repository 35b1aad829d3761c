package repositories

import "errors"

// Storage errors shared by every repository implementation
var (
	// ErrRecordNotFound is returned by lookups that match no row
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a unique constraint rejects a write
	ErrDuplicateKey = errors.New("duplicate key")
)
