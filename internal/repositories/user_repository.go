package repositories

import (
	"context"

	"github.com/uleam/univoz-service/internal/models"
)

// UserRepository interface for account operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// CreateIfAbsent inserts the user unless the email exists. Reports whether a row was added.
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)

	// Delete and UpdateRole succeed with zero rows for unknown ids
	Delete(ctx context.Context, id uint) (int64, error)
	UpdateRole(ctx context.Context, id uint, role models.UserRole) (int64, error)
}
