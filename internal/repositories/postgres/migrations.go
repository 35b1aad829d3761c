package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/uleam/univoz-service/internal/models"
)

// Migrate creates or updates usuarios, votos and opiniones.
// Safe to call on every start.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Vote{},
		&models.Opinion{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}
