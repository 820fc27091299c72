package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind mirrors domain.AccountKind at the storage layer.
type AccountKind string

const (
	KindCashBox  AccountKind = "cash_box"
	KindMoneyBox AccountKind = "money_box"
)

// Account is the DB representation of a monetary account. Cash-box lifecycle
// columns are nullable and unset for money boxes.
type Account struct {
	AccountID     string          `db:"account_id"`
	Kind          AccountKind     `db:"kind"`
	Name          string          `db:"name"`
	Code          string          `db:"code"` // money box well-known code, empty for cash boxes
	CurrentAmount decimal.Decimal `db:"current_amount"`
	AllowNegative bool            `db:"allow_negative"`
	Notes         string          `db:"notes"`

	OwnerUserID   string          `db:"owner_user_id"`
	Status        string          `db:"status"`
	InitialAmount decimal.Decimal `db:"initial_amount"`
	OpenedAt      *time.Time      `db:"opened_at"`
	OpenedBy      string          `db:"opened_by"`
	ClosedAt      *time.Time      `db:"closed_at"`
	ClosedBy      string          `db:"closed_by"`
	CloseReason   string          `db:"close_reason"`

	DeclaredClosingAmount *decimal.Decimal `db:"declared_closing_amount"`
	ClosingVariance       *decimal.Decimal `db:"closing_variance"`

	AuditFields
}
