package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
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
	"github.com/tillworks/pos_ledger_app/internal/utils/accounting"
)

var (
	ErrUnknownTransactionType = fmt.Errorf("%w: unknown transaction type", apperrors.ErrValidation)
	ErrUnknownReferenceType   = fmt.Errorf("%w: unknown reference type", apperrors.ErrValidation)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	ErrAccountNotFound        = fmt.Errorf("%w: account", apperrors.ErrNotFound)
	ErrCashBoxClosed          = fmt.Errorf("%w: cash box is closed", apperrors.ErrInvalidState)
	ErrTransferNotFound       = fmt.Errorf("%w: transfer", apperrors.ErrNotFound)
)

// maxConflictRetries bounds the automatic retry of serialization conflicts.
const maxConflictRetries = 3

// ledgerService is the ledger engine: the single code path that mutates
// account balances. Every mutation locks the account row, snapshots the
// balance, inserts the immutable ledger row and writes the derived balance,
// all inside one database transaction.
type ledgerService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	ledgerRepo  portsrepo.LedgerRepositoryWithTx
}

// NewLedgerService creates the ledger engine.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryWithTx) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateSpec rejects malformed mutation requests before any lock is taken.
func validateSpec(spec domain.TransactionSpec) error {
	if !accounting.IsKnownType(spec.TransactionType) {
		return fmt.Errorf("%w %q", ErrUnknownTransactionType, spec.TransactionType)
	}
	if !accounting.IsKnownReferenceType(spec.ReferenceType) {
		return fmt.Errorf("%w %q", ErrUnknownReferenceType, spec.ReferenceType)
	}
	if !spec.Amount.IsPositive() {
		return fmt.Errorf("%w, got %s", ErrInvalidAmount, spec.Amount.String())
	}
	if _, err := accounting.DirectionFor(spec.TransactionType, spec.AdjustmentDirection); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}

// retryOnConflict runs fn up to maxConflictRetries times while it fails with a
// retryable conflict. Non-retryable errors abort immediately.
func retryOnConflict(ctx context.Context, logger *slog.Logger, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = fn()
		if err == nil || !apperrors.IsRetryable(err) {
			return err
		}
		logger.Warn("Retryable conflict, retrying", slog.Int("attempt", attempt), slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}
	return err
}

// ApplyTransaction implements portssvc.LedgerEngineSvc.
func (s *ledgerService) ApplyTransaction(ctx context.Context, spec domain.TransactionSpec, actingUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	var created *domain.Transaction
	err := retryOnConflict(ctx, logger, func() error {
		txn, err := s.applyOnce(ctx, spec, actingUserID)
		if err != nil {
			return err
		}
		created = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Transaction applied",
		slog.String("transaction_id", created.TransactionID),
		slog.String("account_id", created.AccountID),
		slog.String("type", string(created.TransactionType)),
		slog.String("amount", created.Amount.String()),
	)
	return created, nil
}

func (s *ledgerService) applyOnce(ctx context.Context, spec domain.TransactionSpec, actingUserID string) (*domain.Transaction, error) {
	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx)

	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{spec.AccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", spec.AccountID, err)
	}
	account, ok := accounts[spec.AccountID]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrAccountNotFound, spec.AccountID)
	}

	txn, err := s.ApplyInTx(ctx, tx, &account, spec, actingUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return txn, nil
}

// ApplyInTx implements portssvc.LedgerEngineSvc. The account must already be
// locked by the caller's transaction; its CurrentAmount is advanced in place.
func (s *ledgerService) ApplyInTx(ctx context.Context, tx pgx.Tx, account *domain.Account, spec domain.TransactionSpec, actingUserID string, now time.Time) (*domain.Transaction, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	if !account.IsMutable() {
		return nil, fmt.Errorf("%w: %s", ErrCashBoxClosed, account.AccountID)
	}

	direction, err := accounting.DirectionFor(spec.TransactionType, spec.AdjustmentDirection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	balanceBefore := account.CurrentAmount
	balanceAfter := balanceBefore.Add(accounting.SignedDelta(direction, spec.Amount))

	if balanceAfter.IsNegative() && !account.AllowNegative {
		return nil, fmt.Errorf("%w: account %s has %s, operation needs %s",
			apperrors.ErrInsufficientBalance, account.AccountID, balanceBefore.String(), spec.Amount.String())
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       account.AccountID,
		TransactionType: spec.TransactionType,
		Direction:       direction,
		Amount:          spec.Amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		ReferenceType:   spec.ReferenceType,
		ReferenceID:     spec.ReferenceID,
		Description:     spec.Description,
		Notes:           spec.Notes,
		CreatedAt:       now,
		CreatedBy:       actingUserID,
	}

	if err := s.ledgerRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, account.AccountID, balanceAfter, actingUserID, now); err != nil {
		return nil, fmt.Errorf("failed to update account balance: %w", err)
	}

	account.CurrentAmount = balanceAfter
	return &txn, nil
}

// GetBalance implements portssvc.LedgerReaderSvc.
func (s *ledgerService) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w %s", ErrAccountNotFound, accountID)
		}
		return decimal.Zero, err
	}
	return account.CurrentAmount, nil
}

// GetTransaction implements portssvc.LedgerReaderSvc.
func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactions implements portssvc.LedgerReaderSvc.
func (s *ledgerService) ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w %s", ErrAccountNotFound, accountID)
		}
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	txns, nextToken, err := s.ledgerRepo.ListTransactionsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		NextToken:    nextToken,
	}, nil
}

// GetTransferPair implements portssvc.LedgerReaderSvc.
func (s *ledgerService) GetTransferPair(ctx context.Context, transferID string) (*domain.TransferPair, error) {
	legs, err := s.ledgerRepo.FindTransferPair(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if len(legs) != 2 {
		return nil, fmt.Errorf("%w %s", ErrTransferNotFound, transferID)
	}

	pair := domain.TransferPair{TransferID: transferID}
	for _, leg := range legs {
		switch leg.TransactionType {
		case domain.TxnTransferOut:
			pair.Source = leg
		case domain.TxnTransferIn:
			pair.Destination = leg
		default:
			return nil, fmt.Errorf("%w: unexpected leg type %s on transfer %s", apperrors.ErrInternal, leg.TransactionType, transferID)
		}
	}
	return &pair, nil
}

// Reconcile implements portssvc.LedgerReaderSvc.
func (s *ledgerService) Reconcile(ctx context.Context, accountID string) (*domain.Reconciliation, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w %s", ErrAccountNotFound, accountID)
		}
		return nil, err
	}

	ledgerBalance, count, err := s.ledgerRepo.SumSignedAmounts(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute balance: %w", err)
	}

	return &domain.Reconciliation{
		AccountID:      accountID,
		StoredBalance:  account.CurrentAmount,
		LedgerBalance:  ledgerBalance,
		Drift:          account.CurrentAmount.Sub(ledgerBalance),
		TransactionCnt: count,
	}, nil
}
