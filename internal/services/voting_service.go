package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uleam/univoz-service/internal/models"
	"github.com/uleam/univoz-service/internal/repositories"
	"github.com/uleam/univoz-service/internal/validator"
)

type votingService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewVotingService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) VotingService {
	return &votingService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *votingService) GetPending(ctx context.Context, email string) (*PendingResponse, error) {
	voted, err := s.repo.Vote().ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	cafeteria, err := s.repo.Opinion().ExistsByEmailAndCategory(ctx, email, models.CategoryCafeteria)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	labs, err := s.repo.Opinion().ExistsByEmailAndCategory(ctx, email, models.CategoryLabs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	response := &PendingResponse{
		Status: PendingStatus{
			Elections: voted,
			Cafeteria: cafeteria,
			Labs:      labs,
		},
	}
	if !voted {
		response.Pending++
	}

	return response, nil
}

func (s *votingService) CastVote(ctx context.Context, req *CastVoteRequest) error {
	if err := validate(s.validator, req); err != nil {
		return err
	}

	inserted, err := s.repo.Vote().Create(ctx, &models.Vote{
		Email:     *req.Email,
		Candidate: req.Candidate,
		Proposals: req.Proposals,
		Comments:  req.Comments,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if !inserted {
		s.logger.Info("Duplicate vote rejected", "email", *req.Email)
		return ErrAlreadyVoted
	}

	s.logger.Info("Vote recorded", "email", *req.Email, "candidato", req.Candidate)
	return nil
}

func (s *votingService) GetResults(ctx context.Context) ([]models.CandidateTally, error) {
	tally, err := s.repo.Vote().Tally(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return tally, nil
}

func (s *votingService) ResetVotes(ctx context.Context) error {
	if err := s.repo.Vote().DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.logger.Warn("All votes erased")
	return nil
}
