package client

import (
	"context"

	"github.com/groblegark/tollgate/internal/model"
)

// CreateGateRequest carries the gate creation parameters.
type CreateGateRequest struct {
	PriceFloor          uint64 `json:"price_floor"`
	DecayRate           uint64 `json:"decay_rate"`
	IncreaseNumerator   uint64 `json:"increase_num"`
	IncreaseDenominator uint64 `json:"increase_den"`
	Beneficiary         string `json:"beneficiary"`
	CreatedBy           string `json:"created_by,omitempty"`
}

// ListGatesRequest filters and paginates gate listings.
type ListGatesRequest struct {
	Beneficiary string
	Limit       int
	Offset      int
}

// ListGatesResponse is the paginated gate listing.
type ListGatesResponse struct {
	Gates []*model.Gate `json:"gates"`
	Total int           `json:"total"`
}

// CostResponse is the current price of a gate.
type CostResponse struct {
	GateID uint64 `json:"gate_id"`
	Price  uint64 `json:"price"`
}

// TollClient is the client interface for the tollgate service.
type TollClient interface {
	CreateGate(ctx context.Context, req *CreateGateRequest) (*model.Gate, error)
	GetGate(ctx context.Context, id uint64) (*model.Gate, error)
	ListGates(ctx context.Context, req *ListGatesRequest) (*ListGatesResponse, error)
	GetCost(ctx context.Context, id uint64) (*CostResponse, error)
	PassThrough(ctx context.Context, id uint64, payer string, payment uint64) (*model.Passage, error)
	ListPassages(ctx context.Context, id uint64, limit int) ([]*model.Passage, error)

	CreateAccount(ctx context.Context, name string) (*model.Account, error)
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]*model.Account, error)
	Deposit(ctx context.Context, id string, amount uint64) (*model.Account, error)
	SetFrozen(ctx context.Context, id string, frozen bool) error

	GetStats(ctx context.Context) (*model.Stats, error)
	Health(ctx context.Context) error
	Close() error
}
