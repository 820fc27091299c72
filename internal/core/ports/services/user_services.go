package services

import (
	"context"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

// UserSvcFacade manages operators and administrators.
type UserSvcFacade interface {
	// CreateUser registers a new operator.
	CreateUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// Authenticate verifies a username/password pair.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// RequireAdmin returns ErrForbidden unless the user is an administrator.
	RequireAdmin(ctx context.Context, userID string) error
}

// TokenSvcFacade issues session tokens for authenticated operators.
type TokenSvcFacade interface {
	// Login authenticates and returns a signed session token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
