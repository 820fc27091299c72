package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tillworks/pos_ledger_app/internal/core/domain"
)

// creditTypes increase the account balance; debitTypes decrease it.
// adjustment is absent from both: it carries an explicit direction.
var creditTypes = map[domain.TransactionType]struct{}{
	domain.TxnOpening:         {},
	domain.TxnDeposit:         {},
	domain.TxnSale:            {},
	domain.TxnCustomerReceipt: {},
	domain.TxnPurchaseReturn:  {},
	domain.TxnTransferIn:      {},
}

var debitTypes = map[domain.TransactionType]struct{}{
	domain.TxnClosing:         {},
	domain.TxnWithdrawal:      {},
	domain.TxnPurchase:        {},
	domain.TxnExpense:         {},
	domain.TxnSupplierPayment: {},
	domain.TxnSaleReturn:      {},
	domain.TxnTransferOut:     {},
}

// IsKnownType reports whether t is part of the closed transaction type set.
func IsKnownType(t domain.TransactionType) bool {
	if t == domain.TxnAdjustment {
		return true
	}
	if _, ok := creditTypes[t]; ok {
		return true
	}
	_, ok := debitTypes[t]
	return ok
}

// IsKnownReferenceType reports whether r is an accepted reference category.
func IsKnownReferenceType(r domain.ReferenceType) bool {
	switch r {
	case domain.RefSale, domain.RefPurchase, domain.RefExpense,
		domain.RefCustomerReceipt, domain.RefSupplierPayment,
		domain.RefSaleReturn, domain.RefPurchaseReturn,
		domain.RefDebt, domain.RefInstallment, domain.RefManual,
		domain.RefOpening, domain.RefClosing, domain.RefTransfer:
		return true
	}
	return false
}

// DirectionFor resolves the persisted direction of a ledger row. For every
// ordinary type the direction is a function of the type; for adjustment the
// caller-supplied direction is used and must be valid.
func DirectionFor(t domain.TransactionType, adjustmentDirection domain.TransactionDirection) (domain.TransactionDirection, error) {
	if t == domain.TxnAdjustment {
		switch adjustmentDirection {
		case domain.DirectionCredit, domain.DirectionDebit:
			return adjustmentDirection, nil
		default:
			return "", fmt.Errorf("adjustment requires an explicit direction, got %q", adjustmentDirection)
		}
	}
	if _, ok := creditTypes[t]; ok {
		return domain.DirectionCredit, nil
	}
	if _, ok := debitTypes[t]; ok {
		return domain.DirectionDebit, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", t)
}

// SignedDelta returns the balance delta for a row of the given direction and
// non-negative magnitude.
func SignedDelta(direction domain.TransactionDirection, amount decimal.Decimal) decimal.Decimal {
	if direction == domain.DirectionDebit {
		return amount.Neg()
	}
	return amount
}
