package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/uleam/univoz-service/internal/cache"
	"github.com/uleam/univoz-service/internal/models"
	"github.com/uleam/univoz-service/internal/repositories"
)

type votePostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheManager
}

func NewVotePostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.VoteRepository {
	return &votePostgreSQL{db: db, cache: cm}
}

// Create relies on the unique index on votos.email, so two concurrent
// submissions for one email can never both insert.
func (r *votePostgreSQL) Create(ctx context.Context, vote *models.Vote) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(vote)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create vote: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	cache.InvalidateVoteCache(ctx, r.cache)
	return true, nil
}

func (r *votePostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("email = ?", email).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return count > 0, nil
}

func (r *votePostgreSQL) Tally(ctx context.Context) ([]models.CandidateTally, error) {
	tally := []models.CandidateTally{}
	err := r.cache.Stats.GetOrLoad(ctx, cache.TallyKey, &tally, r.cache.TTL, func() (interface{}, error) {
		rows := []models.CandidateTally{}
		if err := r.db.WithContext(ctx).
			Model(&models.Vote{}).
			Select("candidato, COUNT(*) AS total").
			Group("candidato").
			Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to tally votes: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return tally, nil
}

func (r *votePostgreSQL) List(ctx context.Context) ([]*models.Vote, error) {
	var votes []*models.Vote
	if err := r.db.WithContext(ctx).Order("fecha DESC, id DESC").Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	return votes, nil
}

func (r *votePostgreSQL) DeleteAll(ctx context.Context) error {
	if err := resetTables(ctx, r.db, models.Vote{}.TableName()); err != nil {
		return err
	}
	cache.InvalidateVoteCache(ctx, r.cache)
	return nil
}
