package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind distinguishes the two kinds of monetary accounts.
type AccountKind string

const (
	// KindCashBox is a per-operator till with an open/closed lifecycle.
	KindCashBox AccountKind = "cash_box"
	// KindMoneyBox is a shared, always-open treasury pool.
	KindMoneyBox AccountKind = "money_box"
)

// CashBoxStatus is the lifecycle state of a cash box. The transition is
// open -> closed, terminal; a new operator session creates a new cash box.
type CashBoxStatus string

const (
	CashBoxOpen   CashBoxStatus = "open"
	CashBoxClosed CashBoxStatus = "closed"
)

// Well-known money box codes seeded at install time. Transfer specializations
// resolve their fixed endpoint through these.
const (
	MoneyBoxCodeDaily = "daily"
	MoneyBoxCodeMain  = "main"
)

// Account holds a balance and accepts ledger transactions. CurrentAmount is
// derived state: it must always equal the signed sum of the account's ledger
// rows and is only ever written alongside a ledger insert.
type Account struct {
	AccountID     string          `json:"accountID"`
	Kind          AccountKind     `json:"kind"`
	Name          string          `json:"name"`
	Code          string          `json:"code,omitempty"` // money boxes only; well-known lookup key
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	AllowNegative bool            `json:"allowNegative"`
	Notes         string          `json:"notes,omitempty"`

	// Cash box lifecycle fields. Zero-valued for money boxes.
	OwnerUserID   string          `json:"ownerUserID,omitempty"`
	Status        CashBoxStatus   `json:"status,omitempty"`
	InitialAmount decimal.Decimal `json:"initialAmount"`
	OpenedAt      *time.Time      `json:"openedAt,omitempty"`
	OpenedBy      string          `json:"openedBy,omitempty"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
	ClosedBy      string          `json:"closedBy,omitempty"`
	CloseReason   string          `json:"closeReason,omitempty"`

	// Close reconciliation: the amount the operator physically counted and the
	// variance against the computed ledger balance at close time. Informational;
	// the ledger is authoritative.
	DeclaredClosingAmount *decimal.Decimal `json:"declaredClosingAmount,omitempty"`
	ClosingVariance       *decimal.Decimal `json:"closingVariance,omitempty"`

	AuditFields
}

// IsMutable reports whether the account currently accepts transactions.
func (a *Account) IsMutable() bool {
	if a.Kind == KindMoneyBox {
		return true
	}
	return a.Status == CashBoxOpen
}

// CashBoxClosure carries the fields recorded when a cash box is closed.
type CashBoxClosure struct {
	AccountID             string
	ClosedBy              string
	ClosedAt              time.Time
	CloseReason           string
	DeclaredClosingAmount *decimal.Decimal
	ClosingVariance       *decimal.Decimal
}
