package services

import (
	"context"
	"fmt"
	"io"

	"github.com/uleam/univoz-service/internal/models"
	"github.com/uleam/univoz-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Status string          `json:"status"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"rol"`
}

// CreateUserRequest rejects a missing email or password; empty strings are stored as sent.
type CreateUserRequest struct {
	Email    *string         `json:"email" validate:"required"`
	Password *string         `json:"password" validate:"required"`
	Role     models.UserRole `json:"rol"`
}

type UpdateRoleRequest struct {
	NewRole models.UserRole `json:"nuevoRol"`
}

type CastVoteRequest struct {
	Email     *string `json:"email" validate:"required"`
	Candidate string  `json:"candidato"`
	Proposals string  `json:"propuestas"`
	Comments  string  `json:"comentarios"`
}

type SubmitOpinionRequest struct {
	Email    *string `json:"email" validate:"required"`
	Category string  `json:"categoria"`
	Rating   int     `json:"calificacion"`
	Comment  string  `json:"comentario"`
}

// PendingStatus tells the dashboard which surveys a user has answered
type PendingStatus struct {
	Elections bool `json:"elecciones"`
	Cafeteria bool `json:"cafeteria"`
	Labs      bool `json:"laboratorios"`
}

// PendingResponse counts only the missing election vote; opinions are
// reported in Status but never add to Pending.
type PendingResponse struct {
	Pending int           `json:"pendientes"`
	Status  PendingStatus `json:"estado"`
}

// SeedAccount is an account ensured by Bootstrap
type SeedAccount struct {
	Email    string
	Password string
	Role     models.UserRole
}

type BootstrapResult struct {
	Accounts []SeedAccount
	Created  int
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// Bootstrap inserts the seed accounts, ignoring emails that already exist
	Bootstrap(ctx context.Context) (*BootstrapResult, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)

	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) error
	DeleteUser(ctx context.Context, id uint) error
	UpdateRole(ctx context.Context, id uint, role models.UserRole) error
}

type VotingService interface {
	GetPending(ctx context.Context, email string) (*PendingResponse, error)
	// CastVote returns ErrAlreadyVoted when the email has a vote
	CastVote(ctx context.Context, req *CastVoteRequest) error
	GetResults(ctx context.Context) ([]models.CandidateTally, error)
	ResetVotes(ctx context.Context) error
}

type OpinionService interface {
	SubmitOpinion(ctx context.Context, req *SubmitOpinionRequest) error
	ListOpinions(ctx context.Context, category string) ([]*models.Opinion, error)
	DeleteOpinion(ctx context.Context, id uint) error
	// ResetCategory returns ErrInvalidInput for an empty category
	ResetCategory(ctx context.Context, category string) error
	// ResetAll erases votes and opinions together
	ResetAll(ctx context.Context) error
}

type ReportService interface {
	ExportResults(ctx context.Context, w io.Writer) error
	ExportOpinions(ctx context.Context, category string, w io.Writer) error
	// ExportVotes writes every ballot with its proposals and comments, newest first
	ExportVotes(ctx context.Context, w io.Writer) error
}

type ServiceManager interface {
	Auth() AuthService
	Voting() VotingService
	Opinion() OpinionService
	Report() ReportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

func validate(v *validator.Validator, req interface{}) error {
	if errs := v.Validate(req); errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errs)
	}
	return nil
}
