package model

import "time"

// Account is a ledger account. Balances are exact integers in the smallest
// currency unit; no floating point anywhere in the money path.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Balance uint64 `json:"balance"`

	// Frozen accounts reject both credits and debits. A frozen beneficiary
	// makes every paid passage through its gates fail with TransferFailed.
	Frozen bool `json:"frozen"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
