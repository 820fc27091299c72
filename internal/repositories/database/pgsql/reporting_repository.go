package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
	"github.com/tillworks/pos_ledger_app/internal/models"
	"github.com/tillworks/pos_ledger_app/internal/utils/mapping"
)

// PgxReportingRepository serves the read-only aggregate queries. It issues
// plain SELECTs without locks.
type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for reporting queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// SummarizeAccount aggregates one account's ledger over an optional period.
func (r *PgxReportingRepository) SummarizeAccount(ctx context.Context, accountID string, from, to *time.Time) (*portsrepo.AccountSummary, error) {
	totalsQuery := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'credit'), 0),
			COALESCE(SUM(amount) FILTER (WHERE direction = 'debit'), 0),
			COUNT(*)
		FROM transactions
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3);
	`

	summary := &portsrepo.AccountSummary{
		AccountID: accountID,
		From:      from,
		To:        to,
		ByType:    map[domain.TransactionType]decimal.Decimal{},
	}
	err := r.Pool.QueryRow(ctx, totalsQuery, accountID, from, to).Scan(
		&summary.TotalCredits,
		&summary.TotalDebits,
		&summary.TransactionCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate totals for account %s: %w", accountID, err)
	}

	byTypeQuery := `
		SELECT
			transaction_type,
			COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE account_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		GROUP BY transaction_type;
	`

	rows, err := r.Pool.Query(ctx, byTypeQuery, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by type for account %s: %w", accountID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var txnType string
		var net decimal.Decimal
		if err := rows.Scan(&txnType, &net); err != nil {
			return nil, fmt.Errorf("failed to scan by-type row: %w", err)
		}
		summary.ByType[domain.TransactionType(txnType)] = net
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating by-type rows: %w", err)
	}

	return summary, nil
}

// Overview aggregates totals for every account in one snapshot.
func (r *PgxReportingRepository) Overview(ctx context.Context) ([]portsrepo.OverviewRow, error) {
	query := `
		SELECT
			a.account_id, a.kind, a.name, a.code, a.current_amount, a.allow_negative, a.notes,
			a.owner_user_id, a.status, a.initial_amount, a.opened_at, a.opened_by,
			a.closed_at, a.closed_by, a.close_reason, a.declared_closing_amount, a.closing_variance,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
			COALESCE(t.total_credits, 0),
			COALESCE(t.total_debits, 0),
			COALESCE(t.txn_count, 0)
		FROM accounts a
		LEFT JOIN (
			SELECT
				account_id,
				SUM(amount) FILTER (WHERE direction = 'credit') AS total_credits,
				SUM(amount) FILTER (WHERE direction = 'debit') AS total_debits,
				COUNT(*) AS txn_count
			FROM transactions
			GROUP BY account_id
		) t ON t.account_id = a.account_id
		ORDER BY a.kind, a.name;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query account overview: %w", err)
	}
	defer rows.Close()

	overview := []portsrepo.OverviewRow{}
	for rows.Next() {
		var row portsrepo.OverviewRow
		var m models.Account
		err := rows.Scan(
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
			&row.TotalCredits,
			&row.TotalDebits,
			&row.TransactionCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overview row: %w", err)
		}
		row.Account = mapping.ToDomainAccount(m)
		overview = append(overview, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overview rows: %w", err)
	}

	return overview, nil
}
