package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/groblegark/tollgate/internal/events"
	"github.com/groblegark/tollgate/internal/model"
	"github.com/groblegark/tollgate/internal/registry"
	"github.com/groblegark/tollgate/internal/store"
)

// TollServer serves the gate registry and ledger over HTTP/JSON.
type TollServer struct {
	store     store.Store
	registry  *registry.Registry
	publisher events.Publisher
}

// NewTollServer returns a new TollServer backed by the given store and publisher.
// A nil clock defaults to the system clock.
func NewTollServer(s store.Store, p events.Publisher, clock registry.Clock) *TollServer {
	return &TollServer{
		store:     s,
		registry:  registry.New(s, clock),
		publisher: p,
	}
}

// recordAndPublish persists an event to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (s *TollServer) recordAndPublish(ctx context.Context, topic string, gateID uint64, actor string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "gate_id", gateID, "error", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:   topic,
		GateID:  gateID,
		Actor:   actor,
		Payload: payload,
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "gate_id", gateID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "gate_id", gateID, "error", err)
	}
}
