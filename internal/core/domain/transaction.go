package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates every balance-affecting event kind. The set is
// closed: unknown values are rejected at the ledger engine boundary.
type TransactionType string

const (
	TxnOpening         TransactionType = "opening"
	TxnClosing         TransactionType = "closing"
	TxnDeposit         TransactionType = "deposit"
	TxnWithdrawal      TransactionType = "withdrawal"
	TxnSale            TransactionType = "sale"
	TxnPurchase        TransactionType = "purchase"
	TxnExpense         TransactionType = "expense"
	TxnCustomerReceipt TransactionType = "customer_receipt"
	TxnSupplierPayment TransactionType = "supplier_payment"
	TxnSaleReturn      TransactionType = "sale_return"
	TxnPurchaseReturn  TransactionType = "purchase_return"
	TxnTransferIn      TransactionType = "transfer_in"
	TxnTransferOut     TransactionType = "transfer_out"
	TxnAdjustment      TransactionType = "adjustment"
)

// TransactionDirection is the persisted sign of a ledger row. It is derived
// from the transaction type for every type except adjustment, which carries
// an explicit direction.
type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "credit"
	DirectionDebit  TransactionDirection = "debit"
)

// ReferenceType names the business record category a transaction traces back to.
type ReferenceType string

const (
	RefSale            ReferenceType = "sale"
	RefPurchase        ReferenceType = "purchase"
	RefExpense         ReferenceType = "expense"
	RefCustomerReceipt ReferenceType = "customer_receipt"
	RefSupplierPayment ReferenceType = "supplier_payment"
	RefSaleReturn      ReferenceType = "sale_return"
	RefPurchaseReturn  ReferenceType = "purchase_return"
	RefDebt            ReferenceType = "debt"
	RefInstallment     ReferenceType = "installment"
	RefManual          ReferenceType = "manual"
	RefOpening         ReferenceType = "opening"
	RefClosing         ReferenceType = "closing"
	RefTransfer        ReferenceType = "transfer"
)

// Transaction is an immutable ledger entry. Rows are never updated or deleted;
// corrections post an offsetting adjustment. BalanceBefore/BalanceAfter are
// snapshots taken under the account's row lock at apply time.
type Transaction struct {
	TransactionID   string               `json:"transactionID"`
	AccountID       string               `json:"accountID"`
	TransactionType TransactionType      `json:"transactionType"`
	Direction       TransactionDirection `json:"direction"`
	Amount          decimal.Decimal      `json:"amount"` // non-negative magnitude
	BalanceBefore   decimal.Decimal      `json:"balanceBefore"`
	BalanceAfter    decimal.Decimal      `json:"balanceAfter"`
	ReferenceType   ReferenceType        `json:"referenceType"`
	ReferenceID     string               `json:"referenceID,omitempty"` // originating business record, if any
	Description     string               `json:"description,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
}

// SignedAmount returns the delta this row applied to the account balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionSpec is the caller-supplied description of a ledger mutation,
// before the engine resolves direction and balance snapshots.
type TransactionSpec struct {
	AccountID       string
	TransactionType TransactionType
	Amount          decimal.Decimal
	// AdjustmentDirection must be set when TransactionType is adjustment; it is
	// ignored for every other type.
	AdjustmentDirection TransactionDirection
	ReferenceType       ReferenceType
	ReferenceID         string
	Description         string
	Notes               string
}

// Reconciliation compares an account's stored balance with the balance
// recomputed from its ledger rows.
type Reconciliation struct {
	AccountID      string          `json:"accountID"`
	StoredBalance  decimal.Decimal `json:"storedBalance"`
	LedgerBalance  decimal.Decimal `json:"ledgerBalance"`
	Drift          decimal.Decimal `json:"drift"`
	TransactionCnt int64           `json:"transactionCount"`
}

// Consistent reports whether the stored balance matches the ledger.
func (r *Reconciliation) Consistent() bool {
	return r.Drift.IsZero()
}
