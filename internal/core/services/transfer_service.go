package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/tillworks/pos_ledger_app/internal/core/ports/services"
	"github.com/tillworks/pos_ledger_app/internal/middleware"
)

var (
	ErrSameAccount         = fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	ErrDestinationNotFound = fmt.Errorf("%w: destination account", apperrors.ErrNotFound)
	ErrSourceNotFound      = fmt.Errorf("%w: source account", apperrors.ErrNotFound)
	ErrMoneyBoxNotFound    = fmt.Errorf("%w: money box", apperrors.ErrNotFound)
)

// transferService coordinates atomic two-account fund movements. Both legs are
// posted through the ledger engine inside one database transaction with the
// account rows locked in ascending id order, so a failure in either leg rolls
// back the whole transfer.
type transferService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	ledgerRepo  portsrepo.LedgerRepositoryWithTx
	engine      portssvc.LedgerEngineSvc
}

// NewTransferService creates a new transfer coordinator.
func NewTransferService(accountRepo portsrepo.AccountRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryWithTx, engine portssvc.LedgerEngineSvc) portssvc.TransferSvcFacade {
	return &transferService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		engine:      engine,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// Transfer implements portssvc.TransferSvcFacade.
func (s *transferService) Transfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, notes string, actingUserID string) (*domain.TransferPair, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if sourceAccountID == destinationAccountID {
		return nil, ErrSameAccount
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidAmount, amount.String())
	}

	var pair *domain.TransferPair
	err := retryOnConflict(ctx, logger, func() error {
		created, err := s.transferOnce(ctx, sourceAccountID, destinationAccountID, amount, notes, actingUserID)
		if err != nil {
			return err
		}
		pair = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Transfer completed",
		slog.String("transfer_id", pair.TransferID),
		slog.String("source_account_id", sourceAccountID),
		slog.String("destination_account_id", destinationAccountID),
		slog.String("amount", amount.String()),
	)
	return pair, nil
}

func (s *transferService) transferOnce(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, notes string, actingUserID string) (*domain.TransferPair, error) {
	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx)

	// Lock both rows in ascending id order so crossing transfers cannot
	// deadlock each other.
	ids := []string{sourceAccountID, destinationAccountID}
	sort.Strings(ids)
	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	source, ok := accounts[sourceAccountID]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrSourceNotFound, sourceAccountID)
	}
	destination, ok := accounts[destinationAccountID]
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrDestinationNotFound, destinationAccountID)
	}

	transferID := uuid.NewString()
	now := time.Now().UTC()

	outLeg, err := s.engine.ApplyInTx(ctx, tx, &source, domain.TransactionSpec{
		AccountID:       source.AccountID,
		TransactionType: domain.TxnTransferOut,
		Amount:          amount,
		ReferenceType:   domain.RefTransfer,
		ReferenceID:     transferID,
		Description:     fmt.Sprintf("transfer to %s", destination.Name),
		Notes:           notes,
	}, actingUserID, now)
	if err != nil {
		return nil, err
	}

	inLeg, err := s.engine.ApplyInTx(ctx, tx, &destination, domain.TransactionSpec{
		AccountID:       destination.AccountID,
		TransactionType: domain.TxnTransferIn,
		Amount:          amount,
		ReferenceType:   domain.RefTransfer,
		ReferenceID:     transferID,
		Description:     fmt.Sprintf("transfer from %s", source.Name),
		Notes:           notes,
	}, actingUserID, now)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &domain.TransferPair{
		TransferID:  transferID,
		Source:      *outLeg,
		Destination: *inLeg,
	}, nil
}

// resolveMoneyBox finds a money box by its well-known code.
func (s *transferService) resolveMoneyBox(ctx context.Context, code string) (*domain.Account, error) {
	box, err := s.accountRepo.FindMoneyBoxByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w %q", ErrMoneyBoxNotFound, code)
		}
		return nil, err
	}
	return box, nil
}

// TransferToDailyPool implements portssvc.TransferSvcFacade.
func (s *transferService) TransferToDailyPool(ctx context.Context, sourceAccountID string, amount decimal.Decimal, notes string, actingUserID string) (*domain.TransferPair, error) {
	daily, err := s.resolveMoneyBox(ctx, domain.MoneyBoxCodeDaily)
	if err != nil {
		return nil, err
	}
	return s.Transfer(ctx, sourceAccountID, daily.AccountID, amount, notes, actingUserID)
}

// TransferFromDailyPool implements portssvc.TransferSvcFacade.
func (s *transferService) TransferFromDailyPool(ctx context.Context, destinationAccountID string, amount decimal.Decimal, notes string, actingUserID string) (*domain.TransferPair, error) {
	daily, err := s.resolveMoneyBox(ctx, domain.MoneyBoxCodeDaily)
	if err != nil {
		return nil, err
	}
	return s.Transfer(ctx, daily.AccountID, destinationAccountID, amount, notes, actingUserID)
}

// TransferToMoneyBox implements portssvc.TransferSvcFacade.
func (s *transferService) TransferToMoneyBox(ctx context.Context, sourceAccountID, moneyBoxCode string, amount decimal.Decimal, notes string, actingUserID string) (*domain.TransferPair, error) {
	box, err := s.resolveMoneyBox(ctx, moneyBoxCode)
	if err != nil {
		return nil, err
	}
	return s.Transfer(ctx, sourceAccountID, box.AccountID, amount, notes, actingUserID)
}
