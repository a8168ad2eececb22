// Package snapshot periodically exports registry state as JSONL to one or
// more destinations (S3, local file) for backup and offline inspection.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/groblegark/tollgate/internal/model"
	"github.com/groblegark/tollgate/internal/store"
)

// Destination is the interface for a snapshot target (S3, file, etc.).
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// line is one JSONL record. Type is "gate", "account", or "passage".
type line struct {
	Type    string         `json:"type"`
	Gate    *model.Gate    `json:"gate,omitempty"`
	Account *model.Account `json:"account,omitempty"`
	Passage *model.Passage `json:"passage,omitempty"`
}

// passageExportLimit bounds the per-gate passage history included in a
// snapshot; older receipts stay in the database only.
const passageExportLimit = 1000

// ExportJSONL writes the full registry state (gates, accounts, recent
// passages) to w, one JSON object per line.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	enc := json.NewEncoder(w)

	gates, _, err := s.ListGates(ctx, model.GateFilter{})
	if err != nil {
		return fmt.Errorf("export gates: %w", err)
	}
	for _, g := range gates {
		if err := enc.Encode(line{Type: "gate", Gate: g}); err != nil {
			return err
		}
	}

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("export accounts: %w", err)
	}
	for _, a := range accounts {
		if err := enc.Encode(line{Type: "account", Account: a}); err != nil {
			return err
		}
	}

	for _, g := range gates {
		passages, err := s.ListPassages(ctx, g.ID, passageExportLimit)
		if err != nil {
			return fmt.Errorf("export passages for gate %d: %w", g.ID, err)
		}
		for _, p := range passages {
			if err := enc.Encode(line{Type: "passage", Passage: p}); err != nil {
				return err
			}
		}
	}

	return nil
}

// Scheduler runs periodic snapshots to one or more destinations.
type Scheduler struct {
	store        store.Store
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from the store to the given
// destinations at the specified interval.
func NewScheduler(s store.Store, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic snapshots. It runs an initial export immediately,
// then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current export (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	s.exportOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.exportOnce(ctx)
		}
	}
}

func (s *Scheduler) exportOnce(ctx context.Context) {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.store, &buf); err != nil {
		s.logger.Error("snapshot export failed", "err", err)
		return
	}
	data := buf.Bytes()

	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("snapshot destination write failed", "destination", fmt.Sprintf("%d", i), "err", err)
		}
	}

	s.logger.Info("snapshot completed", "destinations", len(s.destinations), "bytes", len(data))
}
