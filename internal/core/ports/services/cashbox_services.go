package services

import (
	"context"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
	"github.com/tillworks/pos_ledger_app/internal/dto"
)

// CashBoxCloseResult reports the outcome of a close or force-close.
type CashBoxCloseResult struct {
	CashBox  *domain.Account
	Closing  *domain.Transaction  // nil when the balance was already zero
	Redirect *domain.TransferPair // set when a force-close moved the balance
	Variance *domain.Reconciliation
}

// CashBoxSvcFacade owns the cash box lifecycle state machine: open -> closed,
// terminal. A new operator session always creates a new cash box.
type CashBoxSvcFacade interface {
	// Open starts a till session for the operator. Fails with ErrInvalidState
	// when the operator already has an open cash box.
	Open(ctx context.Context, userID string, req dto.OpenCashBoxRequest) (*domain.Account, error)

	// Close ends the operator's own session, posting a closing transaction that
	// drives the balance to zero before flipping status.
	Close(ctx context.Context, userID string, req dto.CloseCashBoxRequest) (*CashBoxCloseResult, error)

	// ForceClose administratively closes any cash box, optionally redirecting
	// its remaining balance to a destination account first. A non-empty reason
	// is required. Any failure leaves the cash box open.
	ForceClose(ctx context.Context, adminUserID string, cashBoxID string, req dto.ForceCloseCashBoxRequest) (*CashBoxCloseResult, error)

	// GetCashBox retrieves one cash box by id.
	GetCashBox(ctx context.Context, cashBoxID string) (*domain.Account, error)

	// GetOwnOpenCashBox retrieves the operator's open cash box.
	GetOwnOpenCashBox(ctx context.Context, userID string) (*domain.Account, error)

	// ListOpenCashBoxes lists every currently open cash box (admin surface).
	ListOpenCashBoxes(ctx context.Context, adminUserID string) ([]domain.Account, error)

	// ListCashBoxes lists cash box history across operators (admin surface).
	ListCashBoxes(ctx context.Context, adminUserID string, params dto.ListCashBoxesParams) ([]domain.Account, error)
}
