package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/apperrors"
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
	"github.com/tillworks/pos_ledger_app/internal/models"
	"github.com/tillworks/pos_ledger_app/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, kind, name, code, current_amount, allow_negative, notes, owner_user_id, status, initial_amount, opened_at, opened_by, closed_at, closed_by, close_reason, declared_closing_amount, closing_variance, created_at, created_by, last_updated_at, last_updated_by`

// scanAccount reads one row of accountColumns. Works for both pgx.Row and
// pgx.Rows.
func scanAccount(s interface{ Scan(dest ...any) error }) (models.Account, error) {
	var m models.Account
	err := s.Scan(
		&m.AccountID,
		&m.Kind,
		&m.Name,
		&m.Code,
		&m.CurrentAmount,
		&m.AllowNegative,
		&m.Notes,
		&m.OwnerUserID,
		&m.Status,
		&m.InitialAmount,
		&m.OpenedAt,
		&m.OpenedBy,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.CloseReason,
		&m.DeclaredClosingAmount,
		&m.ClosingVariance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func accountInsertArgs(m models.Account) []any {
	return []any{
		m.AccountID,
		m.Kind,
		m.Name,
		m.Code,
		m.CurrentAmount,
		m.AllowNegative,
		m.Notes,
		m.OwnerUserID,
		m.Status,
		m.InitialAmount,
		m.OpenedAt,
		m.OpenedBy,
		m.ClosedAt,
		m.ClosedBy,
		m.CloseReason,
		m.DeclaredClosingAmount,
		m.ClosingVariance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

const insertAccountQuery = `
	INSERT INTO accounts (` + accountColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
`

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	if _, err := r.Pool.Exec(ctx, insertAccountQuery, accountInsertArgs(m)...); err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) {
			return mapped
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// SaveAccountInTx inserts a new account within a transaction.
func (r *PgxAccountRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	if _, err := tx.Exec(ctx, insertAccountQuery, accountInsertArgs(m)...); err != nil {
		if mapped := mapPgError(err); errors.Is(mapped, apperrors.ErrDuplicate) || errors.Is(mapped, apperrors.ErrConflictRetryable) {
			return mapped
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindOpenCashBoxByOwner retrieves the operator's single open cash box.
func (r *PgxAccountRepository) FindOpenCashBoxByOwner(ctx context.Context, ownerUserID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE kind = 'cash_box' AND owner_user_id = $1 AND status = 'open';
	`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, ownerUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open cash box for owner %s: %w", ownerUserID, err)
	}

	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindMoneyBoxByCode retrieves a money box by its well-known code.
func (r *PgxAccountRepository) FindMoneyBoxByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE kind = 'money_box' AND code = $1;
	`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find money box by code %s: %w", code, err)
	}

	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// ListOpenCashBoxes retrieves every currently open cash box.
func (r *PgxAccountRepository) ListOpenCashBoxes(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE kind = 'cash_box' AND status = 'open'
		ORDER BY opened_at;
	`
	accounts, err := r.queryAccounts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open cash boxes: %w", err)
	}
	return accounts, nil
}

// ListCashBoxes retrieves cash box history, optionally filtered to one owner.
func (r *PgxAccountRepository) ListCashBoxes(ctx context.Context, ownerUserID *string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE kind = 'cash_box' AND ($1::text IS NULL OR owner_user_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	accounts, err := r.queryAccounts(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash boxes: %w", err)
	}
	return accounts, nil
}

// ListMoneyBoxes retrieves all money boxes.
func (r *PgxAccountRepository) ListMoneyBoxes(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE kind = 'money_box'
		ORDER BY name;
	`
	accounts, err := r.queryAccounts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list money boxes: %w", err)
	}
	return accounts, nil
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the
// rows for update. Rows are locked in ascending id order so concurrent
// transfers acquire locks in the same sequence. Must be called within a
// transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", mapPgError(err))
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", mapPgError(err))
	}

	if len(accountsMap) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// UpdateAccountBalanceInTx writes the new derived balance for one account
// within a transaction. The row must already be locked.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET current_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query, accountID, newBalance, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// CloseCashBoxInTx flips a cash box to closed and records the closure fields.
// The WHERE clause guards against double closes: a box already closed by a
// concurrent transaction affects zero rows.
func (r *PgxAccountRepository) CloseCashBoxInTx(ctx context.Context, tx pgx.Tx, closure domain.CashBoxClosure) error {
	query := `
		UPDATE accounts
		SET status = 'closed', closed_at = $2, closed_by = $3, close_reason = $4,
		    declared_closing_amount = $5, closing_variance = $6,
		    last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND kind = 'cash_box' AND status = 'open';
	`

	cmdTag, err := tx.Exec(ctx, query,
		closure.AccountID,
		closure.ClosedAt,
		closure.ClosedBy,
		closure.CloseReason,
		closure.DeclaredClosingAmount,
		closure.ClosingVariance,
	)
	if err != nil {
		return fmt.Errorf("failed to close cash box %s: %w", closure.AccountID, mapPgError(err))
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cash box %s is not open", apperrors.ErrInvalidState, closure.AccountID)
	}
	return nil
}
