package services

import "errors"

// Service error taxonomy. Handlers map these to HTTP responses with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyVoted = errors.New("user already voted")
	ErrStorage      = errors.New("storage failure")
)
