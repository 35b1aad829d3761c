package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/uleam/univoz-service/internal/models"
	"github.com/uleam/univoz-service/internal/repositories"
	"github.com/uleam/univoz-service/internal/validator"
)

type authService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	bcryptCost int
	seeds      []SeedAccount
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, bcryptCost int, seeds []SeedAccount) AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		repo:       repo,
		logger:     logger,
		validator:  validator,
		bcryptCost: bcryptCost,
		seeds:      seeds,
	}
}

func (s *authService) Bootstrap(ctx context.Context) (*BootstrapResult, error) {
	result := &BootstrapResult{Accounts: s.seeds}

	for _, seed := range s.seeds {
		hash, err := s.hashPassword(seed.Password)
		if err != nil {
			return nil, err
		}

		created, err := s.repo.User().CreateIfAbsent(ctx, &models.User{
			Email:    seed.Email,
			Password: hash,
			Role:     seed.Role,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		if created {
			result.Created++
			s.logger.Info("Seed account created", "email", seed.Email, "rol", seed.Role)
		}
	}

	return result, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, req.Email)
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: wrong password", ErrUnauthorized)
	}

	return &LoginResponse{
		Status: "success",
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.User().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return users, nil
}

func (s *authService) CreateUser(ctx context.Context, req *CreateUserRequest) error {
	if err := validate(s.validator, req); err != nil {
		return err
	}

	hash, err := s.hashPassword(*req.Password)
	if err != nil {
		return err
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	if err := s.repo.User().Create(ctx, &models.User{
		Email:    *req.Email,
		Password: hash,
		Role:     role,
	}); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.logger.Info("User created", "email", *req.Email, "rol", role)
	return nil
}

func (s *authService) DeleteUser(ctx context.Context, id uint) error {
	affected, err := s.repo.User().Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.logger.Info("User deleted", "id", id, "rows", affected)
	return nil
}

func (s *authService) UpdateRole(ctx context.Context, id uint, role models.UserRole) error {
	affected, err := s.repo.User().UpdateRole(ctx, id, role)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.logger.Info("User role updated", "id", id, "rol", role, "rows", affected)
	return nil
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
