package dto

import (
	"github.com/shopspring/decimal"
)

// OpenCashBoxRequest starts an operator till session.
type OpenCashBoxRequest struct {
	Name          string          `json:"name"`
	OpeningAmount decimal.Decimal `json:"openingAmount" binding:"required"`
	AllowNegative bool            `json:"allowNegative"`
	Notes         string          `json:"notes,omitempty"`
}

// CloseCashBoxRequest ends the operator's own session. DeclaredAmount is the
// physically counted amount; it is recorded for variance auditing and never
// overrides the ledger.
type CloseCashBoxRequest struct {
	DeclaredAmount decimal.Decimal `json:"declaredAmount" binding:"required"`
	Notes          string          `json:"notes,omitempty"`
}

// ForceCloseCashBoxRequest is the administrative close-with-override payload.
// DestinationAccountID, when set, receives the box's remaining balance.
type ForceCloseCashBoxRequest struct {
	Reason               string  `json:"reason" binding:"required"`
	DestinationAccountID *string `json:"destinationAccountID,omitempty" binding:"omitempty,uuid"`
}

// CloseCashBoxResponse reports the closed box and the recorded variance.
type CloseCashBoxResponse struct {
	CashBox  AccountResponse      `json:"cashBox"`
	Closing  *TransactionResponse `json:"closingTransaction,omitempty"`
	Variance decimal.Decimal      `json:"variance"`
}
