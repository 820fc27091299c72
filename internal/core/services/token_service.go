package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
	"github.com/tillworks/pos_ledger_app/internal/middleware"
)

// tokenService issues HMAC-signed JWTs carrying the user id as subject, the
// shape AuthMiddleware expects.
type tokenService struct {
	userSvc   portssvc.UserSvcFacade
	jwtSecret string
	tokenTTL  time.Duration
}

// NewTokenService creates the token issuer.
func NewTokenService(userSvc portssvc.UserSvcFacade, jwtSecret string, tokenTTL time.Duration) portssvc.TokenSvcFacade {
	return &tokenService{
		userSvc:   userSvc,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// Login implements portssvc.TokenSvcFacade.
func (s *tokenService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userSvc.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Info("User logged in", "user_id", user.UserID)
	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	}, nil
}
