// Package registry implements the priced gate registry: gate creation, cost
// computation, and the atomic purchase/price-update/fund-forwarding sequence.
package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/groblegark/tollgate/internal/idgen"
	"github.com/groblegark/tollgate/internal/model"
	"github.com/groblegark/tollgate/internal/store"
)

var (
	// ErrInsufficientPayment is returned by PassThrough when the attached
	// payment is below the execution-time cost. No state changes.
	ErrInsufficientPayment = errors.New("insufficient payment")

	// ErrTransferFailed is returned by PassThrough when the beneficiary could
	// not receive the forwarded funds (or the payer could not cover them).
	// The staged price write is rolled back along with the transfer.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrGateNotFound is returned by PassThrough for an unregistered gate id.
	// GetCost deliberately does NOT return it; an unknown id prices at zero.
	ErrGateNotFound = errors.New("gate not found")

	// ErrPriceOverflow is returned when the bumped price does not fit in the
	// 64-bit price range.
	ErrPriceOverflow = errors.New("next price overflows")

	// ErrZeroDenominator is rejected at creation; a stored zero denominator
	// would move the fault to purchase time.
	ErrZeroDenominator = errors.New("increase denominator must be nonzero")

	// ErrValueOutOfRange is returned for monetary inputs beyond the BIGINT
	// storage range.
	ErrValueOutOfRange = errors.New("value exceeds maximum")
)

// Registry owns the gate collection and the ledger it forwards funds through.
type Registry struct {
	store store.Store
	clock Clock
}

// New returns a Registry backed by the given store. A nil clock defaults to
// the one-tick-per-second system clock.
func New(s store.Store, clock Clock) *Registry {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Registry{store: s, clock: clock}
}

// CreateGateParams are the creation inputs. Parameters are stored verbatim;
// aside from range checks and the zero denominator, nothing is validated.
// Registration is intentionally open to any caller.
type CreateGateParams struct {
	PriceFloor          uint64
	DecayRate           uint64
	IncreaseNumerator   uint64
	IncreaseDenominator uint64
	Beneficiary         string
	CreatedBy           string
}

// CreateGate registers a new gate and returns it with its assigned id.
// Ids are dense and sequential starting at 1.
func (r *Registry) CreateGate(ctx context.Context, params CreateGateParams) (*model.Gate, error) {
	if params.IncreaseDenominator == 0 {
		return nil, ErrZeroDenominator
	}
	for _, v := range []uint64{params.PriceFloor, params.DecayRate, params.IncreaseNumerator, params.IncreaseDenominator} {
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d", ErrValueOutOfRange, v)
		}
	}

	gate := &model.Gate{
		PriceFloor:          params.PriceFloor,
		DecayRate:           params.DecayRate,
		IncreaseNumerator:   params.IncreaseNumerator,
		IncreaseDenominator: params.IncreaseDenominator,
		Beneficiary:         params.Beneficiary,
		CreatedBy:           params.CreatedBy,
	}
	if err := r.store.CreateGate(ctx, gate); err != nil {
		return nil, fmt.Errorf("create gate: %w", err)
	}
	return gate, nil
}

// GetCost returns the current price of the gate at the registry clock's tick.
// An unregistered id behaves as an all-zero gate and prices at zero; callers
// must not use this as an existence check.
func (r *Registry) GetCost(ctx context.Context, id uint64) (uint64, error) {
	gate, err := r.store.GetGate(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get gate %d: %w", id, err)
	}
	return CurrentCost(gate, r.clock.Now()), nil
}

// PassThrough executes one purchase: it recomputes the cost at the current
// tick, rejects underpayment, bumps the gate's price state, and forwards the
// entire payment to the beneficiary. The price write is staged before the
// transfer; both commit together or neither does.
//
// payer names the debited ledger account. An empty payer means the payment
// was settled outside the ledger and is only credited to the beneficiary.
func (r *Registry) PassThrough(ctx context.Context, id uint64, payer string, payment uint64) (*model.Passage, error) {
	if payment > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d", ErrValueOutOfRange, payment)
	}
	now := r.clock.Now()

	var passage *model.Passage
	err := r.store.RunInTransaction(ctx, func(tx store.Store) error {
		gate, err := tx.GetGateForUpdate(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGateNotFound
		}
		if err != nil {
			return fmt.Errorf("lock gate %d: %w", id, err)
		}

		// The cost is recomputed with the execution-time tick. It can
		// legitimately differ from what the caller saw on an earlier query.
		cost := CurrentCost(gate, now)
		if payment < cost {
			return fmt.Errorf("%w: cost %d, payment %d", ErrInsufficientPayment, cost, payment)
		}

		next, err := NextPrice(cost, gate.IncreaseNumerator, gate.IncreaseDenominator)
		if err != nil {
			return err
		}

		// Price state is written ahead of the transfer. Anything observing
		// the ledger movement sees the already-bumped price, never the
		// stale pre-purchase one.
		if err := tx.UpdateGatePrice(ctx, id, next, now); err != nil {
			return fmt.Errorf("update gate price: %w", err)
		}

		if payment > 0 {
			if err := forward(ctx, tx, payer, gate.Beneficiary, payment); err != nil {
				return fmt.Errorf("%w: %v", ErrTransferFailed, err)
			}
		}

		receipt, err := idgen.Generate()
		if err != nil {
			return err
		}
		passage = &model.Passage{
			ID:          receipt,
			GateID:      id,
			Payer:       payer,
			Beneficiary: gate.Beneficiary,
			Cost:        cost,
			Payment:     payment,
			NextPrice:   next,
			Tick:        now,
		}
		return tx.RecordPassage(ctx, passage)
	})
	if err != nil {
		return nil, err
	}
	return passage, nil
}

// forward moves the full payment to the beneficiary: debit the payer (when
// named), credit the beneficiary. No partial movement survives an error; the
// enclosing transaction rolls everything back.
func forward(ctx context.Context, tx store.Store, payer, beneficiary string, payment uint64) error {
	if payer != "" {
		if err := tx.DebitAccount(ctx, payer, payment); err != nil {
			return fmt.Errorf("debit payer %s: %w", payer, err)
		}
	}
	if err := tx.CreditAccount(ctx, beneficiary, payment); err != nil {
		return fmt.Errorf("credit beneficiary %s: %w", beneficiary, err)
	}
	return nil
}
