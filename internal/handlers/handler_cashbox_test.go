package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/core/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
	"github.com/tillworks/pos_ledger_app/internal/handlers"
	"github.com/tillworks/pos_ledger_app/internal/platform/config"
)

// --- Mock CashBoxService ---

type MockCashBoxService struct {
	mock.Mock
}

var _ portssvc.CashBoxSvcFacade = (*MockCashBoxService)(nil)

func (m *MockCashBoxService) Open(ctx context.Context, userID string, req dto.OpenCashBoxRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockCashBoxService) Close(ctx context.Context, userID string, req dto.CloseCashBoxRequest) (*portssvc.CashBoxCloseResult, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.CashBoxCloseResult), args.Error(1)
}

func (m *MockCashBoxService) ForceClose(ctx context.Context, adminUserID string, cashBoxID string, req dto.ForceCloseCashBoxRequest) (*portssvc.CashBoxCloseResult, error) {
	args := m.Called(ctx, adminUserID, cashBoxID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.CashBoxCloseResult), args.Error(1)
}

func (m *MockCashBoxService) GetCashBox(ctx context.Context, cashBoxID string) (*domain.Account, error) {
	args := m.Called(ctx, cashBoxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockCashBoxService) GetOwnOpenCashBox(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockCashBoxService) ListOpenCashBoxes(ctx context.Context, adminUserID string) ([]domain.Account, error) {
	args := m.Called(ctx, adminUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockCashBoxService) ListCashBoxes(ctx context.Context, adminUserID string, params dto.ListCashBoxesParams) ([]domain.Account, error) {
	args := m.Called(ctx, adminUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite ---

type CashBoxHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockCashBoxService *MockCashBoxService
	jwtSecret          string
	userID             string
}

func (suite *CashBoxHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *CashBoxHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()
	suite.mockCashBoxService = new(MockCashBoxService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		CashBox: suite.mockCashBoxService,
	})
}

func (suite *CashBoxHandlerTestSuite) doJSON(method, url string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CashBoxHandlerTestSuite) TestOpenCashBox_Success() {
	now := time.Now().UTC()
	expected := &domain.Account{
		AccountID:     uuid.NewString(),
		Kind:          domain.KindCashBox,
		Name:          "morning till",
		CurrentAmount: decimal.NewFromInt(50),
		OwnerUserID:   suite.userID,
		Status:        domain.CashBoxOpen,
		InitialAmount: decimal.NewFromInt(50),
		OpenedAt:      &now,
		OpenedBy:      suite.userID,
	}
	suite.mockCashBoxService.On("Open",
		mock.Anything,
		suite.userID,
		mock.MatchedBy(func(req dto.OpenCashBoxRequest) bool {
			return req.Name == "morning till" && req.OpeningAmount.Equal(decimal.NewFromInt(50))
		}),
	).Return(expected, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/cashboxes", gin.H{
		"name":          "morning till",
		"openingAmount": "50",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var envelope struct {
		Success bool                `json:"success"`
		Data    dto.AccountResponse `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	suite.True(envelope.Success)
	suite.Equal(expected.AccountID, envelope.Data.AccountID)
	suite.Equal(domain.CashBoxOpen, envelope.Data.Status)
	suite.mockCashBoxService.AssertExpectations(suite.T())
}

func (suite *CashBoxHandlerTestSuite) TestOpenCashBox_AlreadyOpenMapsToConflict() {
	suite.mockCashBoxService.On("Open", mock.Anything, suite.userID, mock.AnythingOfType("dto.OpenCashBoxRequest")).
		Return(nil, services.ErrAlreadyOpen).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/cashboxes", gin.H{"openingAmount": "50"})

	suite.Equal(http.StatusConflict, w.Code)
	var envelope dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	suite.False(envelope.Success)
	suite.Require().NotNil(envelope.Error)
	suite.Equal("INVALID_STATE", envelope.Error.Kind)
}

func (suite *CashBoxHandlerTestSuite) TestCloseCashBox_ReturnsVariance() {
	now := time.Now().UTC()
	declared := decimal.NewFromInt(75)
	variance := decimal.NewFromInt(-5)
	closedBox := &domain.Account{
		AccountID:             uuid.NewString(),
		Kind:                  domain.KindCashBox,
		OwnerUserID:           suite.userID,
		Status:                domain.CashBoxClosed,
		CurrentAmount:         decimal.Zero,
		ClosedAt:              &now,
		ClosedBy:              suite.userID,
		DeclaredClosingAmount: &declared,
		ClosingVariance:       &variance,
	}
	closing := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       closedBox.AccountID,
		TransactionType: domain.TxnClosing,
		Direction:       domain.DirectionDebit,
		Amount:          decimal.NewFromInt(80),
		BalanceBefore:   decimal.NewFromInt(80),
		BalanceAfter:    decimal.Zero,
	}
	suite.mockCashBoxService.On("Close",
		mock.Anything,
		suite.userID,
		mock.MatchedBy(func(req dto.CloseCashBoxRequest) bool {
			return req.DeclaredAmount.Equal(declared)
		}),
	).Return(&portssvc.CashBoxCloseResult{
		CashBox: closedBox,
		Closing: closing,
		Variance: &domain.Reconciliation{
			AccountID:     closedBox.AccountID,
			StoredBalance: decimal.NewFromInt(80),
			LedgerBalance: declared,
			Drift:         variance,
		},
	}, nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/cashboxes/me/close", gin.H{"declaredAmount": "75"})

	suite.Equal(http.StatusOK, w.Code)
	var envelope struct {
		Success bool                     `json:"success"`
		Data    dto.CloseCashBoxResponse `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	suite.True(envelope.Success)
	suite.Equal(domain.CashBoxClosed, envelope.Data.CashBox.Status)
	suite.Require().NotNil(envelope.Data.Closing)
	suite.Equal(domain.TxnClosing, envelope.Data.Closing.TransactionType)
	suite.True(envelope.Data.Variance.Equal(variance))
	suite.mockCashBoxService.AssertExpectations(suite.T())
}

func (suite *CashBoxHandlerTestSuite) TestForceClose_ForbiddenForNonAdmin() {
	boxID := uuid.NewString()
	suite.mockCashBoxService.On("ForceClose", mock.Anything, suite.userID, boxID, mock.AnythingOfType("dto.ForceCloseCashBoxRequest")).
		Return(nil, services.ErrAdminRequired).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/cashboxes/"+boxID+"/force-close", gin.H{"reason": "cleanup"})

	suite.Equal(http.StatusForbidden, w.Code)
	var envelope dto.Envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	suite.Equal("FORBIDDEN", envelope.Error.Kind)
}

func (suite *CashBoxHandlerTestSuite) TestOpenCashBox_MissingToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/cashboxes", bytes.NewBufferString(`{"openingAmount":"50"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockCashBoxService.AssertNotCalled(suite.T(), "Open", mock.Anything, mock.Anything, mock.Anything)
}

func TestCashBoxHandler(t *testing.T) {
	suite.Run(t, new(CashBoxHandlerTestSuite))
}
