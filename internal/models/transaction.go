package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the DB representation of a ledger row. The table is
// append-only: there are no last_updated columns because rows are immutable.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	TransactionType string          `db:"transaction_type"`
	Direction       string          `db:"direction"`
	Amount          decimal.Decimal `db:"amount"`
	BalanceBefore   decimal.Decimal `db:"balance_before"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	ReferenceType   string          `db:"reference_type"`
	ReferenceID     string          `db:"reference_id"`
	Description     string          `db:"description"`
	Notes           string          `db:"notes"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}
