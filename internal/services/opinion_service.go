package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uleam/univoz-service/internal/models"
	"github.com/uleam/univoz-service/internal/repositories"
	"github.com/uleam/univoz-service/internal/validator"
)

type opinionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewOpinionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) OpinionService {
	return &opinionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// SubmitOpinion always inserts; repeated submissions per category are kept.
func (s *opinionService) SubmitOpinion(ctx context.Context, req *SubmitOpinionRequest) error {
	if err := validate(s.validator, req); err != nil {
		return err
	}

	if err := s.repo.Opinion().Create(ctx, &models.Opinion{
		Email:    *req.Email,
		Category: req.Category,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}

func (s *opinionService) ListOpinions(ctx context.Context, category string) ([]*models.Opinion, error) {
	opinions, err := s.repo.Opinion().List(ctx, repositories.OpinionFilters{Category: category})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return opinions, nil
}

func (s *opinionService) DeleteOpinion(ctx context.Context, id uint) error {
	if _, err := s.repo.Opinion().Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

func (s *opinionService) ResetCategory(ctx context.Context, category string) error {
	if category == "" {
		return fmt.Errorf("%w: categoria is required", ErrInvalidInput)
	}

	removed, err := s.repo.Opinion().DeleteByCategory(ctx, category)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.logger.Warn("Opinion category reset", "categoria", category, "rows", removed)
	return nil
}

func (s *opinionService) ResetAll(ctx context.Context) error {
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Vote().DeleteAll(ctx); err != nil {
			return err
		}
		return tx.Opinion().DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.logger.Warn("Votes and opinions erased")
	return nil
}
