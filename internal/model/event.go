package model

import (
	"encoding/json"
	"time"
)

// Event is a persisted audit record mirroring what is published to the bus.
type Event struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	GateID    uint64          `json:"gate_id,omitempty"`
	Actor     string          `json:"actor,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
