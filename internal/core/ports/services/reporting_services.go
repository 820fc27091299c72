package services

import (
	"context"

	"github.com/tillworks/pos_ledger_app/internal/dto"
)

// ReportingSvcFacade exposes the read-only aggregate views. Implementations
// only read committed ledger state and never write.
type ReportingSvcFacade interface {
	// Summary aggregates one account's activity over an optional period.
	Summary(ctx context.Context, params dto.SummaryParams) (*dto.AccountSummaryResponse, error)

	// Overview aggregates every account in one snapshot (admin dashboards).
	Overview(ctx context.Context) (*dto.OverviewResponse, error)
}
