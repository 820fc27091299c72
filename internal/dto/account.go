package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
)

// AccountResponse is the API shape of a cash box or money box.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	Kind          domain.AccountKind `json:"kind"`
	Name          string             `json:"name"`
	Code          string             `json:"code,omitempty"`
	CurrentAmount decimal.Decimal    `json:"currentAmount"`
	AllowNegative bool               `json:"allowNegative"`
	Notes         string             `json:"notes,omitempty"`

	OwnerUserID   string               `json:"ownerUserID,omitempty"`
	Status        domain.CashBoxStatus `json:"status,omitempty"`
	InitialAmount decimal.Decimal      `json:"initialAmount"`
	OpenedAt      *time.Time           `json:"openedAt,omitempty"`
	OpenedBy      string               `json:"openedBy,omitempty"`
	ClosedAt      *time.Time           `json:"closedAt,omitempty"`
	ClosedBy      string               `json:"closedBy,omitempty"`
	CloseReason   string               `json:"closeReason,omitempty"`

	DeclaredClosingAmount *decimal.Decimal `json:"declaredClosingAmount,omitempty"`
	ClosingVariance       *decimal.Decimal `json:"closingVariance,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
}

// ToAccountResponse converts a domain account to its API shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:             a.AccountID,
		Kind:                  a.Kind,
		Name:                  a.Name,
		Code:                  a.Code,
		CurrentAmount:         a.CurrentAmount,
		AllowNegative:         a.AllowNegative,
		Notes:                 a.Notes,
		OwnerUserID:           a.OwnerUserID,
		Status:                a.Status,
		InitialAmount:         a.InitialAmount,
		OpenedAt:              a.OpenedAt,
		OpenedBy:              a.OpenedBy,
		ClosedAt:              a.ClosedAt,
		ClosedBy:              a.ClosedBy,
		CloseReason:           a.CloseReason,
		DeclaredClosingAmount: a.DeclaredClosingAmount,
		ClosingVariance:       a.ClosingVariance,
		CreatedAt:             a.CreatedAt,
		CreatedBy:             a.CreatedBy,
	}
}

// ToListAccountResponse converts a slice of domain accounts.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListCashBoxesParams defines query parameters for cash box history listings.
type ListCashBoxesParams struct {
	OwnerUserID *string `form:"ownerUserID"`
	Limit       int     `form:"limit,default=20"`
	Offset      int     `form:"offset,default=0"`
}
