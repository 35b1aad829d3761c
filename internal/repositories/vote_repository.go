package repositories

import (
	"context"

	"github.com/uleam/univoz-service/internal/models"
)

// VoteRepository interface for election ballots
type VoteRepository interface {
	// Create inserts atomically and reports false when the email already voted
	Create(ctx context.Context, vote *models.Vote) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Tally(ctx context.Context) ([]models.CandidateTally, error)
	List(ctx context.Context) ([]*models.Vote, error)

	// DeleteAll empties votos and restarts its identity at 1
	DeleteAll(ctx context.Context) error
}
