package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/dto"
	"github.com/tillworks/pos_ledger_app/internal/middleware"
)

var (
	ErrAlreadyOpen    = fmt.Errorf("%w: operator already has an open cash box", apperrors.ErrInvalidState)
	ErrNoOpenCashBox  = fmt.Errorf("%w: open cash box", apperrors.ErrNotFound)
	ErrAlreadyClosed  = fmt.Errorf("%w: cash box is already closed", apperrors.ErrInvalidState)
	ErrReasonRequired = fmt.Errorf("%w: close reason is required", apperrors.ErrValidation)
	ErrNotACashBox    = fmt.Errorf("%w: account is not a cash box", apperrors.ErrValidation)
)

// cashBoxService owns the cash box lifecycle: open -> closed, terminal.
// Closing always settles the ledger first and flips status last, inside one
// database transaction, so a closed box can never hold unmoved funds.
type cashBoxService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	ledgerRepo  portsrepo.LedgerRepositoryWithTx
	engine      portssvc.LedgerEngineSvc
	userSvc     portssvc.UserSvcFacade
}

// NewCashBoxService creates the lifecycle and reconciliation manager.
func NewCashBoxService(accountRepo portsrepo.AccountRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryWithTx, engine portssvc.LedgerEngineSvc, userSvc portssvc.UserSvcFacade) portssvc.CashBoxSvcFacade {
	return &cashBoxService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		engine:      engine,
		userSvc:     userSvc,
	}
}

var _ portssvc.CashBoxSvcFacade = (*cashBoxService)(nil)

// Open implements portssvc.CashBoxSvcFacade.
func (s *cashBoxService) Open(ctx context.Context, userID string, req dto.OpenCashBoxRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningAmount.IsNegative() {
		return nil, fmt.Errorf("%w: opening amount must not be negative", apperrors.ErrValidation)
	}

	existing, err := s.accountRepo.FindOpenCashBoxByOwner(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w (cash box %s)", ErrAlreadyOpen, existing.AccountID)
	}

	now := time.Now().UTC()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "cash box " + now.Format("2006-01-02")
	}

	account := domain.Account{
		AccountID:     uuid.NewString(),
		Kind:          domain.KindCashBox,
		Name:          name,
		CurrentAmount: decimal.Zero,
		AllowNegative: req.AllowNegative,
		Notes:         req.Notes,
		OwnerUserID:   userID,
		Status:        domain.CashBoxOpen,
		InitialAmount: req.OpeningAmount,
		OpenedAt:      &now,
		OpenedBy:      userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx)

	if err := s.accountRepo.SaveAccountInTx(ctx, tx, account); err != nil {
		// The partial unique index backs up the pre-check under concurrency.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, ErrAlreadyOpen
		}
		return nil, fmt.Errorf("failed to create cash box: %w", err)
	}

	if req.OpeningAmount.IsPositive() {
		if _, err := s.engine.ApplyInTx(ctx, tx, &account, domain.TransactionSpec{
			AccountID:       account.AccountID,
			TransactionType: domain.TxnOpening,
			Amount:          req.OpeningAmount,
			ReferenceType:   domain.RefOpening,
			Description:     "opening float",
		}, userID, now); err != nil {
			return nil, err
		}
	}

	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Cash box opened",
		slog.String("cash_box_id", account.AccountID),
		slog.String("owner_user_id", userID),
		slog.String("opening_amount", req.OpeningAmount.String()),
	)
	return &account, nil
}

// Close implements portssvc.CashBoxSvcFacade.
func (s *cashBoxService) Close(ctx context.Context, userID string, req dto.CloseCashBoxRequest) (*portssvc.CashBoxCloseResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	open, err := s.accountRepo.FindOpenCashBoxByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrNoOpenCashBox
		}
		return nil, err
	}

	var result *portssvc.CashBoxCloseResult
	err = retryOnConflict(ctx, logger, func() error {
		r, err := s.closeOnce(ctx, open.AccountID, userID, userID, "", &req.DeclaredAmount, nil)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cash box closed",
		slog.String("cash_box_id", result.CashBox.AccountID),
		slog.String("closed_by", userID),
	)
	return result, nil
}

// ForceClose implements portssvc.CashBoxSvcFacade.
func (s *cashBoxService) ForceClose(ctx context.Context, adminUserID string, cashBoxID string, req dto.ForceCloseCashBoxRequest) (*portssvc.CashBoxCloseResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.userSvc.RequireAdmin(ctx, adminUserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	var result *portssvc.CashBoxCloseResult
	err := retryOnConflict(ctx, logger, func() error {
		r, err := s.closeOnce(ctx, cashBoxID, adminUserID, adminUserID, req.Reason, nil, req.DestinationAccountID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cash box force-closed",
		slog.String("cash_box_id", cashBoxID),
		slog.String("admin_user_id", adminUserID),
		slog.String("reason", req.Reason),
	)
	return result, nil
}

// closeOnce performs a close or force-close as one database transaction:
// settle the ledger (redirect or close in place), record the closure, flip
// status. Any error rolls everything back, leaving the box open.
func (s *cashBoxService) closeOnce(ctx context.Context, cashBoxID, closedBy, actingUserID, reason string, declaredAmount *decimal.Decimal, destinationAccountID *string) (*portssvc.CashBoxCloseResult, error) {
	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx)

	lockIDs := []string{cashBoxID}
	if destinationAccountID != nil {
		if *destinationAccountID == cashBoxID {
			return nil, ErrSameAccount
		}
		lockIDs = append(lockIDs, *destinationAccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, lockIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for close: %w", err)
	}

	box, ok := accounts[cashBoxID]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrAccountNotFound, cashBoxID)
	}
	if box.Kind != domain.KindCashBox {
		return nil, fmt.Errorf("%w (%s)", ErrNotACashBox, cashBoxID)
	}
	if box.Status == domain.CashBoxClosed {
		return nil, ErrAlreadyClosed
	}

	var destination *domain.Account
	if destinationAccountID != nil {
		dest, ok := accounts[*destinationAccountID]
		if !ok {
			return nil, fmt.Errorf("%w %s", ErrDestinationNotFound, *destinationAccountID)
		}
		destination = &dest
	}

	now := time.Now().UTC()
	balanceAtClose := box.CurrentAmount

	result := &portssvc.CashBoxCloseResult{}

	switch {
	case balanceAtClose.IsZero():
		// Nothing to settle.
	case destination != nil:
		pair, err := s.redirectBalanceInTx(ctx, tx, &box, destination, reason, actingUserID, now)
		if err != nil {
			return nil, err
		}
		result.Redirect = pair
	default:
		closing, err := s.settleInPlaceInTx(ctx, tx, &box, actingUserID, now)
		if err != nil {
			return nil, err
		}
		result.Closing = closing
	}

	closure := domain.CashBoxClosure{
		AccountID:   cashBoxID,
		ClosedBy:    closedBy,
		ClosedAt:    now,
		CloseReason: reason,
	}
	if declaredAmount != nil {
		variance := declaredAmount.Sub(balanceAtClose)
		closure.DeclaredClosingAmount = declaredAmount
		closure.ClosingVariance = &variance
		result.Variance = &domain.Reconciliation{
			AccountID:     cashBoxID,
			StoredBalance: balanceAtClose,
			LedgerBalance: *declaredAmount,
			Drift:         variance,
		}
	}

	if err := s.accountRepo.CloseCashBoxInTx(ctx, tx, closure); err != nil {
		return nil, fmt.Errorf("failed to record closure: %w", err)
	}

	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	box.Status = domain.CashBoxClosed
	box.ClosedAt = &now
	box.ClosedBy = closedBy
	box.CloseReason = reason
	box.DeclaredClosingAmount = closure.DeclaredClosingAmount
	box.ClosingVariance = closure.ClosingVariance
	result.CashBox = &box
	return result, nil
}

// redirectBalanceInTx moves the full remaining balance to the destination as a
// correlated transfer pair, leaving the box at zero.
func (s *cashBoxService) redirectBalanceInTx(ctx context.Context, tx pgx.Tx, box, destination *domain.Account, reason, actingUserID string, now time.Time) (*domain.TransferPair, error) {
	amount := box.CurrentAmount
	transferID := uuid.NewString()

	outLeg, err := s.engine.ApplyInTx(ctx, tx, box, domain.TransactionSpec{
		AccountID:       box.AccountID,
		TransactionType: domain.TxnTransferOut,
		Amount:          amount,
		ReferenceType:   domain.RefTransfer,
		ReferenceID:     transferID,
		Description:     fmt.Sprintf("force-close redirect to %s", destination.Name),
		Notes:           reason,
	}, actingUserID, now)
	if err != nil {
		return nil, err
	}

	inLeg, err := s.engine.ApplyInTx(ctx, tx, destination, domain.TransactionSpec{
		AccountID:       destination.AccountID,
		TransactionType: domain.TxnTransferIn,
		Amount:          amount,
		ReferenceType:   domain.RefTransfer,
		ReferenceID:     transferID,
		Description:     fmt.Sprintf("force-close redirect from %s", box.Name),
		Notes:           reason,
	}, actingUserID, now)
	if err != nil {
		return nil, err
	}

	return &domain.TransferPair{TransferID: transferID, Source: *outLeg, Destination: *inLeg}, nil
}

// settleInPlaceInTx posts the ledger row that drives the balance to exactly
// zero. A positive balance closes out as a closing debit; a negative one
// (possible only with allow_negative) is brought up with a credit adjustment.
func (s *cashBoxService) settleInPlaceInTx(ctx context.Context, tx pgx.Tx, box *domain.Account, actingUserID string, now time.Time) (*domain.Transaction, error) {
	balance := box.CurrentAmount
	spec := domain.TransactionSpec{
		AccountID:     box.AccountID,
		ReferenceType: domain.RefClosing,
		Description:   "close out remaining balance",
	}
	if balance.IsPositive() {
		spec.TransactionType = domain.TxnClosing
		spec.Amount = balance
	} else {
		spec.TransactionType = domain.TxnAdjustment
		spec.AdjustmentDirection = domain.DirectionCredit
		spec.Amount = balance.Neg()
	}
	return s.engine.ApplyInTx(ctx, tx, box, spec, actingUserID, now)
}

// GetCashBox implements portssvc.CashBoxSvcFacade.
func (s *cashBoxService) GetCashBox(ctx context.Context, cashBoxID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, cashBoxID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w %s", ErrAccountNotFound, cashBoxID)
		}
		return nil, err
	}
	if account.Kind != domain.KindCashBox {
		return nil, fmt.Errorf("%w (%s)", ErrNotACashBox, cashBoxID)
	}
	return account, nil
}

// GetOwnOpenCashBox implements portssvc.CashBoxSvcFacade.
func (s *cashBoxService) GetOwnOpenCashBox(ctx context.Context, userID string) (*domain.Account, error) {
	box, err := s.accountRepo.FindOpenCashBoxByOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrNoOpenCashBox
		}
		return nil, err
	}
	return box, nil
}

// ListOpenCashBoxes implements portssvc.CashBoxSvcFacade.
func (s *cashBoxService) ListOpenCashBoxes(ctx context.Context, adminUserID string) ([]domain.Account, error) {
	if err := s.userSvc.RequireAdmin(ctx, adminUserID); err != nil {
		return nil, err
	}
	return s.accountRepo.ListOpenCashBoxes(ctx)
}

// ListCashBoxes implements portssvc.CashBoxSvcFacade.
func (s *cashBoxService) ListCashBoxes(ctx context.Context, adminUserID string, params dto.ListCashBoxesParams) ([]domain.Account, error) {
	if err := s.userSvc.RequireAdmin(ctx, adminUserID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	return s.accountRepo.ListCashBoxes(ctx, params.OwnerUserID, limit, offset)
}
