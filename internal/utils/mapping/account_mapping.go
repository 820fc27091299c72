package mapping

import (
	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	"github.com/tillworks/pos_ledger_app/internal/models"
)

// ToModelAccount converts a domain account to its DB representation.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:             d.AccountID,
		Kind:                  models.AccountKind(d.Kind),
		Name:                  d.Name,
		Code:                  d.Code,
		CurrentAmount:         d.CurrentAmount,
		AllowNegative:         d.AllowNegative,
		Notes:                 d.Notes,
		OwnerUserID:           d.OwnerUserID,
		Status:                string(d.Status),
		InitialAmount:         d.InitialAmount,
		OpenedAt:              d.OpenedAt,
		OpenedBy:              d.OpenedBy,
		ClosedAt:              d.ClosedAt,
		ClosedBy:              d.ClosedBy,
		CloseReason:           d.CloseReason,
		DeclaredClosingAmount: d.DeclaredClosingAmount,
		ClosingVariance:       d.ClosingVariance,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a DB account row to its domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:             m.AccountID,
		Kind:                  domain.AccountKind(m.Kind),
		Name:                  m.Name,
		Code:                  m.Code,
		CurrentAmount:         m.CurrentAmount,
		AllowNegative:         m.AllowNegative,
		Notes:                 m.Notes,
		OwnerUserID:           m.OwnerUserID,
		Status:                domain.CashBoxStatus(m.Status),
		InitialAmount:         m.InitialAmount,
		OpenedAt:              m.OpenedAt,
		OpenedBy:              m.OpenedBy,
		ClosedAt:              m.ClosedAt,
		ClosedBy:              m.ClosedBy,
		CloseReason:           m.CloseReason,
		DeclaredClosingAmount: m.DeclaredClosingAmount,
		ClosingVariance:       m.ClosingVariance,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}
