package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
	"github.com/tillworks/pos_ledger_app/internal/middleware"
)

var (
	ErrNotAMoneyBox = fmt.Errorf("%w: account is not a money box", apperrors.ErrValidation)
	ErrCodeTaken    = fmt.Errorf("%w: money box code already in use", apperrors.ErrDuplicate)
	ErrReservedCode = fmt.Errorf("%w: money box code is reserved", apperrors.ErrValidation)
)

// moneyBoxService manages the shared treasury pools. Money boxes have no
// lifecycle: once created they stay open and are never closed or deleted.
type moneyBoxService struct {
	accountRepo   portsrepo.AccountRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	userSvc       portssvc.UserSvcFacade
}

// NewMoneyBoxService creates the money box manager.
func NewMoneyBoxService(accountRepo portsrepo.AccountRepositoryFacade, reportingRepo portsrepo.ReportingRepository, userSvc portssvc.UserSvcFacade) portssvc.MoneyBoxSvcFacade {
	return &moneyBoxService{
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
		userSvc:       userSvc,
	}
}

var _ portssvc.MoneyBoxSvcFacade = (*moneyBoxService)(nil)

// CreateMoneyBox implements portssvc.MoneyBoxSvcFacade.
func (s *moneyBoxService) CreateMoneyBox(ctx context.Context, adminUserID string, req dto.CreateMoneyBoxRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.userSvc.RequireAdmin(ctx, adminUserID); err != nil {
		return nil, err
	}

	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == domain.MoneyBoxCodeDaily || code == domain.MoneyBoxCodeMain {
		return nil, fmt.Errorf("%w (%s)", ErrReservedCode, code)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Kind:          domain.KindMoneyBox,
		Name:          strings.TrimSpace(req.Name),
		Code:          code,
		CurrentAmount: decimal.Zero,
		AllowNegative: req.AllowNegative,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     adminUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: adminUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w (%s)", ErrCodeTaken, code)
		}
		return nil, fmt.Errorf("failed to create money box: %w", err)
	}

	logger.Info("Money box created",
		slog.String("account_id", account.AccountID),
		slog.String("code", code),
		slog.String("created_by", adminUserID),
	)
	return &account, nil
}

// GetMoneyBox implements portssvc.MoneyBoxSvcFacade.
func (s *moneyBoxService) GetMoneyBox(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w %s", ErrAccountNotFound, accountID)
		}
		return nil, err
	}
	if account.Kind != domain.KindMoneyBox {
		return nil, fmt.Errorf("%w (%s)", ErrNotAMoneyBox, accountID)
	}
	return account, nil
}

// ListMoneyBoxes implements portssvc.MoneyBoxSvcFacade.
func (s *moneyBoxService) ListMoneyBoxes(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListMoneyBoxes(ctx)
}

// SummarizeMoneyBox implements portssvc.MoneyBoxSvcFacade.
func (s *moneyBoxService) SummarizeMoneyBox(ctx context.Context, accountID string) (*portsrepo.AccountSummary, error) {
	if _, err := s.GetMoneyBox(ctx, accountID); err != nil {
		return nil, err
	}
	return s.reportingRepo.SummarizeAccount(ctx, accountID, nil, nil)
}
