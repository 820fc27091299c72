package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
)

// SummaryParams selects the account and optional period for a summary report.
type SummaryParams struct {
	AccountID string     `form:"accountID" binding:"required,uuid"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// AccountSummaryResponse aggregates one account's ledger activity.
type AccountSummaryResponse struct {
	AccountID        string                                     `json:"accountID"`
	From             *time.Time                                 `json:"from,omitempty"`
	To               *time.Time                                 `json:"to,omitempty"`
	TotalCredits     decimal.Decimal                            `json:"totalCredits"`
	TotalDebits      decimal.Decimal                            `json:"totalDebits"`
	NetChange        decimal.Decimal                            `json:"netChange"`
	TransactionCount int64                                      `json:"transactionCount"`
	ByType           map[domain.TransactionType]decimal.Decimal `json:"byType"`
}

// ToAccountSummaryResponse converts a repository summary.
func ToAccountSummaryResponse(s *portsrepo.AccountSummary) AccountSummaryResponse {
	return AccountSummaryResponse{
		AccountID:        s.AccountID,
		From:             s.From,
		To:               s.To,
		TotalCredits:     s.TotalCredits,
		TotalDebits:      s.TotalDebits,
		NetChange:        s.TotalCredits.Sub(s.TotalDebits),
		TransactionCount: s.TransactionCount,
		ByType:           s.ByType,
	}
}

// OverviewEntryResponse is one account line of the cross-account overview.
type OverviewEntryResponse struct {
	Account          AccountResponse `json:"account"`
	TotalCredits     decimal.Decimal `json:"totalCredits"`
	TotalDebits      decimal.Decimal `json:"totalDebits"`
	TransactionCount int64           `json:"transactionCount"`
}

// OverviewResponse is the cross-account snapshot with grand totals.
type OverviewResponse struct {
	Accounts     []OverviewEntryResponse `json:"accounts"`
	TotalBalance decimal.Decimal         `json:"totalBalance"`
}

// ToOverviewResponse converts repository overview rows and computes the
// balance grand total.
func ToOverviewResponse(rows []portsrepo.OverviewRow) OverviewResponse {
	resp := OverviewResponse{Accounts: make([]OverviewEntryResponse, len(rows))}
	total := decimal.Zero
	for i := range rows {
		resp.Accounts[i] = OverviewEntryResponse{
			Account:          ToAccountResponse(&rows[i].Account),
			TotalCredits:     rows[i].TotalCredits,
			TotalDebits:      rows[i].TotalDebits,
			TransactionCount: rows[i].TransactionCount,
		}
		total = total.Add(rows[i].Account.CurrentAmount)
	}
	resp.TotalBalance = total
	return resp
}
