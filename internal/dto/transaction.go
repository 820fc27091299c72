package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
)

// ApplyTransactionRequest is the single entry point payload for sibling
// modules posting balance-affecting events.
type ApplyTransactionRequest struct {
	AccountID       string                 `json:"accountID" binding:"required,uuid"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	// Direction is only honored for adjustment transactions.
	Direction     domain.TransactionDirection `json:"direction,omitempty" binding:"omitempty,oneof=credit debit"`
	ReferenceType domain.ReferenceType        `json:"referenceType" binding:"required"`
	ReferenceID   string                      `json:"referenceID,omitempty"`
	Description   string                      `json:"description,omitempty"`
	Notes         string                      `json:"notes,omitempty"`
}

// TransactionResponse mirrors domain.Transaction for API output.
type TransactionResponse struct {
	TransactionID   string                       `json:"transactionID"`
	AccountID       string                       `json:"accountID"`
	TransactionType domain.TransactionType       `json:"transactionType"`
	Direction       domain.TransactionDirection  `json:"direction"`
	Amount          decimal.Decimal              `json:"amount"`
	BalanceBefore   decimal.Decimal              `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal              `json:"balanceAfter"`
	ReferenceType   domain.ReferenceType         `json:"referenceType"`
	ReferenceID     string                       `json:"referenceID,omitempty"`
	Description     string                       `json:"description,omitempty"`
	Notes           string                       `json:"notes,omitempty"`
	CreatedAt       time.Time                    `json:"createdAt"`
	CreatedBy       string                       `json:"createdBy"`
}

// ToTransactionResponse converts a domain transaction to its API shape.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		AccountID:       t.AccountID,
		TransactionType: t.TransactionType,
		Direction:       t.Direction,
		Amount:          t.Amount,
		BalanceBefore:   t.BalanceBefore,
		BalanceAfter:    t.BalanceAfter,
		ReferenceType:   t.ReferenceType,
		ReferenceID:     t.ReferenceID,
		Description:     t.Description,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		CreatedBy:       t.CreatedBy,
	}
}

// ToListTransactionResponse converts a slice of domain transactions.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for ledger listings.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=50"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of ledger rows plus the continuation token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// BalanceResponse is the read-side balance of one account.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// ReconciliationResponse reports stored-vs-recomputed balance for one account.
type ReconciliationResponse struct {
	AccountID        string          `json:"accountID"`
	StoredBalance    decimal.Decimal `json:"storedBalance"`
	LedgerBalance    decimal.Decimal `json:"ledgerBalance"`
	Drift            decimal.Decimal `json:"drift"`
	TransactionCount int64           `json:"transactionCount"`
	Consistent       bool            `json:"consistent"`
}

// ToReconciliationResponse converts a domain reconciliation result.
func ToReconciliationResponse(r *domain.Reconciliation) ReconciliationResponse {
	return ReconciliationResponse{
		AccountID:        r.AccountID,
		StoredBalance:    r.StoredBalance,
		LedgerBalance:    r.LedgerBalance,
		Drift:            r.Drift,
		TransactionCount: r.TransactionCnt,
		Consistent:       r.Consistent(),
	}
}
