package repositories

import (
	"context"

	"github.com/uleam/univoz-service/internal/models"
)

// OpinionFilters narrows opinion listings
type OpinionFilters struct {
	Category string
}

// OpinionRepository interface for categorized ratings
type OpinionRepository interface {
	Create(ctx context.Context, opinion *models.Opinion) error
	ExistsByEmailAndCategory(ctx context.Context, email, category string) (bool, error)
	// List returns newest first
	List(ctx context.Context, filters OpinionFilters) ([]*models.Opinion, error)
	Delete(ctx context.Context, id uint) (int64, error)
	DeleteByCategory(ctx context.Context, category string) (int64, error)

	// DeleteAll empties opiniones and restarts its identity at 1
	DeleteAll(ctx context.Context) error
}
