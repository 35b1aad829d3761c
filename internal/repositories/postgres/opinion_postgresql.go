package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/uleam/univoz-service/internal/cache"
	"github.com/uleam/univoz-service/internal/models"
	"github.com/uleam/univoz-service/internal/repositories"
)

type opinionPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewOpinionPostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.OpinionRepository {
	return &opinionPostgreSQL{db: db, cache: cm}
}

func (r *opinionPostgreSQL) Create(ctx context.Context, opinion *models.Opinion) error {
	if err := r.db.WithContext(ctx).Create(opinion).Error; err != nil {
		return fmt.Errorf("failed to create opinion: %w", err)
	}
	cache.InvalidateOpinionCache(ctx, r.cache)
	return nil
}

func (r *opinionPostgreSQL) ExistsByEmailAndCategory(ctx context.Context, email, category string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Opinion{}).
		Where("email = ? AND categoria = ?", email, category).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check opinion: %w", err)
	}
	return count > 0, nil
}

func (r *opinionPostgreSQL) List(ctx context.Context, filters repositories.OpinionFilters) ([]*models.Opinion, error) {
	key := "list:all"
	if filters.Category != "" {
		key = "list:category:" + filters.Category
	}

	opinions := []*models.Opinion{}
	err := r.cache.Opinions.GetOrLoad(ctx, key, &opinions, r.cache.TTL, func() (interface{}, error) {
		rows := []*models.Opinion{}
		query := r.db.WithContext(ctx).Order("fecha DESC, id DESC")
		if filters.Category != "" {
			query = query.Where("categoria = ?", filters.Category)
		}
		if err := query.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to list opinions: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return opinions, nil
}

func (r *opinionPostgreSQL) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.Opinion{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete opinion: %w", result.Error)
	}
	cache.InvalidateOpinionCache(ctx, r.cache)
	return result.RowsAffected, nil
}

func (r *opinionPostgreSQL) DeleteByCategory(ctx context.Context, category string) (int64, error) {
	result := r.db.WithContext(ctx).Where("categoria = ?", category).Delete(&models.Opinion{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete opinions for %s: %w", category, result.Error)
	}
	cache.InvalidateOpinionCache(ctx, r.cache)
	return result.RowsAffected, nil
}

func (r *opinionPostgreSQL) DeleteAll(ctx context.Context) error {
	if err := resetTables(ctx, r.db, models.Opinion{}.TableName()); err != nil {
		return err
	}
	cache.InvalidateOpinionCache(ctx, r.cache)
	return nil
}
