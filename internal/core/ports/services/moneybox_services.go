package services

import (
	"context"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	"github.com/tillworks/pos_ledger_app/internal/dto"
	portsrepo "github.com/tillworks/pos_ledger_app/internal/core/ports/repositories"
)

// MoneyBoxSvcFacade manages the shared, always-open treasury pools.
type MoneyBoxSvcFacade interface {
	// CreateMoneyBox creates a named pool (admin surface).
	CreateMoneyBox(ctx context.Context, adminUserID string, req dto.CreateMoneyBoxRequest) (*domain.Account, error)

	// GetMoneyBox retrieves one money box by id.
	GetMoneyBox(ctx context.Context, accountID string) (*domain.Account, error)

	// ListMoneyBoxes retrieves all money boxes.
	ListMoneyBoxes(ctx context.Context) ([]domain.Account, error)

	// SummarizeMoneyBox aggregates a money box's ledger activity.
	SummarizeMoneyBox(ctx context.Context, accountID string) (*portsrepo.AccountSummary, error)
}
