package model

import "time"

// Passage is the receipt for one successful pass through a gate: payment
// accepted, price bumped, funds forwarded. Receipts are append-only.
type Passage struct {
	ID     string `json:"id"`
	GateID uint64 `json:"gate_id"`

	// Payer is the debited account, or empty when the payment was settled
	// outside the ledger and only credited to the beneficiary.
	Payer       string `json:"payer,omitempty"`
	Beneficiary string `json:"beneficiary"`

	// Cost is the computed price at execution time; Payment is the full
	// amount forwarded (surplus over Cost is never refunded).
	Cost    uint64 `json:"cost"`
	Payment uint64 `json:"payment"`

	// NextPrice is the base price written back to the gate.
	NextPrice uint64 `json:"next_price"`
	Tick      uint64 `json:"tick"`

	CreatedAt time.Time `json:"created_at"`
}
