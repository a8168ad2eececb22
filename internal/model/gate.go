package model

import "time"

// Gate is one priced admission point. Its cost jumps by a rational factor on
// every passage and decays linearly with elapsed ticks back toward the floor.
type Gate struct {
	ID uint64 `json:"id"`

	// Pricing parameters, fixed at creation.
	PriceFloor          uint64 `json:"price_floor"`
	DecayRate           uint64 `json:"decay_rate"`
	IncreaseNumerator   uint64 `json:"increase_num"`
	IncreaseDenominator uint64 `json:"increase_den"`

	// Beneficiary is the account credited with forwarded payments.
	// Immutable after creation; never validated against the accounts table.
	Beneficiary string `json:"beneficiary"`

	// LastPrice and LastTick are updated together on every successful
	// passage and nowhere else. Both are zero before the first passage.
	LastPrice uint64 `json:"last_price"`
	LastTick  uint64 `json:"last_tick"`

	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

// GateFilter narrows ListGates results.
type GateFilter struct {
	Beneficiary string
	Limit       int
	Offset      int
}
