package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
)

// TransferSvcFacade moves funds between two accounts as one atomic operation:
// either both legs are committed or neither is.
type TransferSvcFacade interface {
	// Transfer posts a transfer_out on the source and a matching transfer_in on
	// the destination, correlated by a shared transfer id.
	Transfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, notes string, actingUserID string) (*domain.TransferPair, error)

	// TransferToDailyPool moves funds from an account into the daily register.
	TransferToDailyPool(ctx context.Context, sourceAccountID string, amount decimal.Decimal, notes string, actingUserID string) (*domain.TransferPair, error)

	// TransferFromDailyPool moves funds from the daily register into an account.
	TransferFromDailyPool(ctx context.Context, destinationAccountID string, amount decimal.Decimal, notes string, actingUserID string) (*domain.TransferPair, error)

	// TransferToMoneyBox resolves the destination money box by code first.
	TransferToMoneyBox(ctx context.Context, sourceAccountID, moneyBoxCode string, amount decimal.Decimal, notes string, actingUserID string) (*domain.TransferPair, error)
}
