package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
)

// LedgerReader defines read operations over the transaction ledger.
type LedgerReader interface {
	// FindTransactionByID retrieves a single ledger row.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccount retrieves ledger rows for an account in
	// creation order (newest first) using token pagination. The returned token
	// is nil when no further page exists.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// FindTransferPair retrieves the two legs sharing a transfer correlation id.
	FindTransferPair(ctx context.Context, transferID string) ([]domain.Transaction, error)

	// SumSignedAmounts recomputes an account balance from its ledger rows and
	// returns it along with the row count.
	SumSignedAmounts(ctx context.Context, accountID string) (decimal.Decimal, int64, error)
}

// LedgerWriter defines the single persistence primitive for ledger rows.
// Rows are append-only: there is no update or delete.
type LedgerWriter interface {
	// SaveTransactionInTx inserts a ledger row within a transaction.
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
}

// LedgerRepositoryFacade combines ledger read and write interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
