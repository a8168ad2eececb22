package events

import (
	"context"

	"github.com/groblegark/tollgate/internal/model"
)

// Event topic constants
const (
	TopicGateCreated      = "toll.gate.created"
	TopicGatePassed       = "toll.gate.passed"
	TopicAccountCreated   = "toll.account.created"
	TopicAccountDeposited = "toll.account.deposited"
	TopicAccountFrozen    = "toll.account.frozen"
	TopicAccountUnfrozen  = "toll.account.unfrozen"
)

// Event types

type GateCreated struct {
	Gate *model.Gate `json:"gate"`
}

type GatePassed struct {
	Passage *model.Passage `json:"passage"`
}

type AccountCreated struct {
	Account *model.Account `json:"account"`
}

type AccountDeposited struct {
	AccountID string `json:"account_id"`
	Amount    uint64 `json:"amount"`
}

type AccountFrozen struct {
	AccountID string `json:"account_id"`
}

type AccountUnfrozen struct {
	AccountID string `json:"account_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
