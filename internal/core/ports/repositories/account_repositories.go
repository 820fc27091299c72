package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindOpenCashBoxByOwner retrieves the single open cash box for an operator,
	// or ErrNotFound when the operator has none.
	FindOpenCashBoxByOwner(ctx context.Context, ownerUserID string) (*domain.Account, error)

	// FindMoneyBoxByCode retrieves a money box by its well-known code.
	FindMoneyBoxByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListOpenCashBoxes retrieves every currently open cash box.
	ListOpenCashBoxes(ctx context.Context) ([]domain.Account, error)

	// ListCashBoxes retrieves cash box history, optionally filtered to one owner.
	ListCashBoxes(ctx context.Context, ownerUserID *string, limit int, offset int) ([]domain.Account, error)

	// ListMoneyBoxes retrieves all money boxes.
	ListMoneyBoxes(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines the operations the ledger engine performs
// against accounts inside a database transaction.
type AccountTransactionSupport interface {
	// SaveAccountInTx persists a new account within a transaction.
	SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error

	// FindAccountsByIDsForUpdate selects accounts in ascending id order and
	// locks their rows for update within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalanceInTx writes the new derived balance for one account
	// within a transaction. Only the ledger engine may call this.
	UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance decimal.Decimal, userID string, now time.Time) error

	// CloseCashBoxInTx flips a cash box to closed and records the closure
	// fields within a transaction.
	CloseCashBoxInTx(ctx context.Context, tx pgx.Tx, closure domain.CashBoxClosure) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities.
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
