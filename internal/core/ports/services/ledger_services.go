package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

// LedgerEngineSvc is the only code path allowed to mutate an account balance.
type LedgerEngineSvc interface {
	// ApplyTransaction validates, persists and returns one ledger row together
	// with the balance update, as a single all-or-nothing unit. Retryable
	// conflicts are retried a bounded number of times internally.
	ApplyTransaction(ctx context.Context, spec domain.TransactionSpec, actingUserID string) (*domain.Transaction, error)

	// ApplyInTx posts one leg against an already-locked account inside the
	// caller's database transaction. The account's CurrentAmount is advanced in
	// place so subsequent legs in the same transaction observe it. Callers own
	// locking order and commit/rollback.
	ApplyInTx(ctx context.Context, tx pgx.Tx, account *domain.Account, spec domain.TransactionSpec, actingUserID string, now time.Time) (*domain.Transaction, error)
}

// LedgerReaderSvc defines the consistent read paths over the ledger.
type LedgerReaderSvc interface {
	// GetBalance returns the stored balance of an account.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// GetTransaction returns a single ledger row.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a page of ledger rows for an account.
	ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// GetTransferPair reassembles the two legs of a transfer by correlation id.
	GetTransferPair(ctx context.Context, transferID string) (*domain.TransferPair, error)

	// Reconcile recomputes an account balance from the ledger and compares it
	// with the stored balance.
	Reconcile(ctx context.Context, accountID string) (*domain.Reconciliation, error)
}

// LedgerSvcFacade combines the mutation engine and the read paths.
type LedgerSvcFacade interface {
	LedgerEngineSvc
	LedgerReaderSvc
}
