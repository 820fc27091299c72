package domain

// TransferPair is the two linked transactions of an atomic transfer. Both legs
// share the same amount and correlation ReferenceID and are created together
// or not at all. A transfer is derived state: it is never persisted separately
// from its two ledger rows.
type TransferPair struct {
	TransferID  string      `json:"transferID"`  // correlation id shared by both legs
	Source      Transaction `json:"source"`      // transfer_out on the source account
	Destination Transaction `json:"destination"` // transfer_in on the destination account
}
