package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
)

// AccountSummary aggregates an account's ledger activity over a period.
type AccountSummary struct {
	AccountID        string
	From             *time.Time
	To               *time.Time
	TotalCredits     decimal.Decimal
	TotalDebits      decimal.Decimal
	TransactionCount int64
	ByType           map[domain.TransactionType]decimal.Decimal
}

// OverviewRow is one line of the cross-account overview.
type OverviewRow struct {
	Account          domain.Account
	TotalCredits     decimal.Decimal
	TotalDebits      decimal.Decimal
	TransactionCount int64
}

// ReportingRepository defines the read-only aggregate queries. Implementations
// must never write and must observe committed state only.
type ReportingRepository interface {
	// SummarizeAccount aggregates one account's ledger over an optional period.
	SummarizeAccount(ctx context.Context, accountID string, from, to *time.Time) (*AccountSummary, error)

	// Overview aggregates totals for every account in one snapshot.
	Overview(ctx context.Context) ([]OverviewRow, error)
}
