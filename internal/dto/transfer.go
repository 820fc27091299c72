package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
)

// TransferRequest moves funds between two accounts atomically.
type TransferRequest struct {
	SourceAccountID      string          `json:"sourceAccountID" binding:"required,uuid"`
	DestinationAccountID string          `json:"destinationAccountID" binding:"required,uuid"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	Notes                string          `json:"notes,omitempty"`
}

// PoolTransferRequest is the fixed-endpoint specialization: one endpoint is the
// caller's account, the other is a well-known money box.
type PoolTransferRequest struct {
	AccountID string          `json:"accountID" binding:"required,uuid"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Notes     string          `json:"notes,omitempty"`
}

// NamedPoolTransferRequest resolves the destination money box by code.
type NamedPoolTransferRequest struct {
	SourceAccountID string          `json:"sourceAccountID" binding:"required,uuid"`
	MoneyBoxCode    string          `json:"moneyBoxCode" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Notes           string          `json:"notes,omitempty"`
}

// TransferResponse is the created pair of correlated ledger rows.
type TransferResponse struct {
	TransferID  string              `json:"transferID"`
	Source      TransactionResponse `json:"source"`
	Destination TransactionResponse `json:"destination"`
}

// ToTransferResponse converts a domain transfer pair.
func ToTransferResponse(p *domain.TransferPair) TransferResponse {
	return TransferResponse{
		TransferID:  p.TransferID,
		Source:      ToTransactionResponse(&p.Source),
		Destination: ToTransactionResponse(&p.Destination),
	}
}
