package store

import (
	"context"
	"errors"

	"github.com/groblegark/tollgate/internal/model"
)

// Ledger movement errors. The registry wraps these into its transfer-failed
// error so callers see a single failure kind with the cause attached.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountFrozen     = errors.New("account frozen")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Store defines the persistence interface for the gate registry and ledger.
type Store interface {
	// Gates
	CreateGate(ctx context.Context, gate *model.Gate) error
	GetGate(ctx context.Context, id uint64) (*model.Gate, error)
	// GetGateForUpdate locks the gate row for the remainder of the enclosing
	// transaction, serializing concurrent passes through the same gate.
	GetGateForUpdate(ctx context.Context, id uint64) (*model.Gate, error)
	ListGates(ctx context.Context, filter model.GateFilter) ([]*model.Gate, int, error)
	// UpdateGatePrice writes lastPrice and lastTick together; nothing else on
	// a gate row is ever mutated.
	UpdateGatePrice(ctx context.Context, id uint64, lastPrice, lastTick uint64) error

	// Accounts
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]*model.Account, error)
	CreditAccount(ctx context.Context, id string, amount uint64) error
	DebitAccount(ctx context.Context, id string, amount uint64) error
	SetAccountFrozen(ctx context.Context, id string, frozen bool) error

	// Passages
	RecordPassage(ctx context.Context, passage *model.Passage) error
	ListPassages(ctx context.Context, gateID uint64, limit int) ([]*model.Passage, error)

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	GetEvents(ctx context.Context, gateID uint64) ([]*model.Event, error)

	// Stats
	GetStats(ctx context.Context) (*model.Stats, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
