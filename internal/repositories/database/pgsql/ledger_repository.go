package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
	"github.com/tillworks/pos_ledger_app/internal/models"
	"github.com/tillworks/pos_ledger_app/internal/utils/mapping"
	"github.com/tillworks/pos_ledger_app/internal/utils/pagination"
)

// PgxLedgerRepository persists the append-only transaction ledger. There are
// deliberately no update or delete statements in this file.
type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const transactionColumns = `transaction_id, account_id, transaction_type, direction, amount, balance_before, balance_after, reference_type, reference_id, description, notes, created_at, created_by`

func scanTransaction(s interface{ Scan(dest ...any) error }) (models.Transaction, error) {
	var m models.Transaction
	err := s.Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.TransactionType,
		&m.Direction,
		&m.Amount,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.Description,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

// SaveTransactionInTx inserts a ledger row within a transaction.
func (r *PgxLedgerRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.TransactionType,
		m.Direction,
		m.Amount,
		m.BalanceBefore,
		m.BalanceAfter,
		m.ReferenceType,
		m.ReferenceID,
		m.Description,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, mapPgError(err))
	}
	return nil
}

// FindTransactionByID retrieves a single ledger row.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactionsByAccount retrieves ledger rows newest first using keyset
// pagination over (created_at, transaction_id). One extra row is fetched to
// decide whether a further page exists.
func (r *PgxLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var afterTime *time.Time
	var afterID *string
	if nextToken != nil && *nextToken != "" {
		t, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		afterTime = &t
		afterID = &id
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR (created_at, transaction_id) < ($2, $3))
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $4;
	`

	rows, err := r.Pool.Query(ctx, query, accountID, afterTime, afterID, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var newToken *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		newToken = &token
	}

	return transactions, newToken, nil
}

// FindTransferPair retrieves the two legs sharing a transfer correlation id.
func (r *PgxLedgerRepository) FindTransferPair(ctx context.Context, transferID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE reference_type = 'transfer' AND reference_id = $1
		ORDER BY transaction_type DESC;
	`
	// transfer_out sorts after transfer_in, so ORDER BY DESC yields the source
	// leg first.

	rows, err := r.Pool.Query(ctx, query, transferID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transfer pair %s: %w", transferID, err)
	}
	defer rows.Close()

	legs := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer leg row: %w", err)
		}
		legs = append(legs, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfer leg rows: %w", err)
	}

	if len(legs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return legs, nil
}

// SumSignedAmounts recomputes an account balance from its ledger rows.
func (r *PgxLedgerRepository) SumSignedAmounts(ctx context.Context, accountID string) (decimal.Decimal, int64, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0),
			COUNT(*)
		FROM transactions
		WHERE account_id = $1;
	`

	var sum decimal.Decimal
	var count int64
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&sum, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum ledger for account %s: %w", accountID, err)
	}
	return sum, count, nil
}
