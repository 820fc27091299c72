package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/core/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

const testJWTSecret = "test-secret"

type TokenServiceTestSuite struct {
	suite.Suite
	mockUserSvc *MockUserService
	service     portssvc.TokenSvcFacade
	ctx         context.Context

	operator domain.User
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.mockUserSvc = new(MockUserService)
	suite.service = services.NewTokenService(suite.mockUserSvc, testJWTSecret, 8*time.Hour)
	suite.ctx = context.Background()

	suite.operator = domain.User{
		UserID:   "user-op-1",
		Username: "cashier1",
		Name:     "Front register",
	}
}

func (suite *TokenServiceTestSuite) TestLogin_Success() {
	suite.mockUserSvc.On("Authenticate", suite.ctx, "cashier1", "correct horse battery").
		Return(&suite.operator, nil).Once()

	resp, err := suite.service.Login(suite.ctx, dto.LoginRequest{
		Username: "cashier1",
		Password: "correct horse battery",
	})

	suite.Require().NoError(err)
	suite.NotEmpty(resp.Token)
	suite.Equal(suite.operator.UserID, resp.User.UserID)
	suite.WithinDuration(time.Now().Add(8*time.Hour), resp.ExpiresAt, time.Minute)

	// The token must carry the user id as subject and verify with the secret.
	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(resp.Token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	suite.Require().NoError(err)
	suite.True(parsed.Valid)
	suite.Equal(suite.operator.UserID, claims.Subject)
}

func (suite *TokenServiceTestSuite) TestLogin_BadCredentials() {
	suite.mockUserSvc.On("Authenticate", suite.ctx, "cashier1", "wrong").
		Return(nil, apperrors.ErrValidation).Once()

	_, err := suite.service.Login(suite.ctx, dto.LoginRequest{
		Username: "cashier1",
		Password: "wrong",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestTokenService(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
