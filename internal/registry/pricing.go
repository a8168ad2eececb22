package registry

import (
	"math"
	"math/bits"

	"github.com/groblegark/tollgate/internal/model"
)

// CurrentCost returns the price of passing through g at the given tick.
//
// The decayed price is computed in comparison form rather than by subtracting
// first: lastPrice is compared against the accumulated decay, so the result
// can never wrap below zero and the floor is the steady state for arbitrarily
// large elapsed time. A zero-value gate yields a cost of zero.
func CurrentCost(g *model.Gate, now uint64) uint64 {
	if now < g.LastTick {
		// The tick counter is monotonic; a stale reading decays nothing.
		now = g.LastTick
	}
	decay, ok := mulNoOverflow(g.DecayRate, now-g.LastTick)
	if !ok || decay >= g.LastPrice {
		// Saturated decay clamps to the floor, which is where unbounded
		// decay lands anyway.
		return g.PriceFloor
	}
	if cost := g.LastPrice - decay; cost > g.PriceFloor {
		return cost
	}
	return g.PriceFloor
}

// NextPrice returns floor(cost * num / den), the base price recorded after a
// purchase at cost. The product is taken in 128 bits, so the bump only fails
// when the truncated quotient itself is too large to store. Prices live in
// BIGINT columns, so the representable range is [0, MaxInt64].
func NextPrice(cost, num, den uint64) (uint64, error) {
	if den == 0 {
		return 0, ErrZeroDenominator
	}
	hi, lo := bits.Mul64(cost, num)
	if hi >= den {
		return 0, ErrPriceOverflow
	}
	quo, _ := bits.Div64(hi, lo, den)
	if quo > math.MaxInt64 {
		return 0, ErrPriceOverflow
	}
	return quo, nil
}

// mulNoOverflow returns a*b and whether the product fit in 64 bits.
func mulNoOverflow(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}
