package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/groblegark/tollgate/internal/model"
	"github.com/groblegark/tollgate/internal/store"
)

// exportStore is a stub store.Store serving fixed data to ExportJSONL.
type exportStore struct {
	store.Store // panic on anything the exporter shouldn't touch

	gates    []*model.Gate
	accounts []*model.Account
	passages map[uint64][]*model.Passage
}

func (s *exportStore) ListGates(_ context.Context, _ model.GateFilter) ([]*model.Gate, int, error) {
	return s.gates, len(s.gates), nil
}

func (s *exportStore) ListAccounts(_ context.Context) ([]*model.Account, error) {
	return s.accounts, nil
}

func (s *exportStore) ListPassages(_ context.Context, gateID uint64, _ int) ([]*model.Passage, error) {
	return s.passages[gateID], nil
}

func TestExportJSONL(t *testing.T) {
	s := &exportStore{
		gates: []*model.Gate{
			{ID: 1, PriceFloor: 100, Beneficiary: "ac-b"},
			{ID: 2, PriceFloor: 50, Beneficiary: "ac-c"},
		},
		accounts: []*model.Account{
			{ID: "ac-b", Balance: 250},
		},
		passages: map[uint64][]*model.Passage{
			1: {{ID: "ps-1", GateID: 1, Cost: 100, Payment: 100}},
		},
	}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), s, &buf); err != nil {
		t.Fatalf("ExportJSONL: %v", err)
	}

	var counts = map[string]int{}
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var l line
		if err := json.Unmarshal(scanner.Bytes(), &l); err != nil {
			t.Fatalf("bad JSONL line %q: %v", scanner.Text(), err)
		}
		counts[l.Type]++
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}

	if counts["gate"] != 2 {
		t.Errorf("gate lines = %d, want 2", counts["gate"])
	}
	if counts["account"] != 1 {
		t.Errorf("account lines = %d, want 1", counts["account"])
	}
	if counts["passage"] != 1 {
		t.Errorf("passage lines = %d, want 1", counts["passage"])
	}
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapshot.jsonl")
	dest := NewFileDestination(path)

	if err := dest.Write(context.Background(), []byte("{\"type\":\"gate\"}\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(data) != "{\"type\":\"gate\"}\n" {
		t.Errorf("snapshot content = %q", data)
	}

	// Overwrite replaces the previous snapshot.
	if err := dest.Write(context.Background(), []byte("{}\n")); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "{}\n" {
		t.Errorf("snapshot content after overwrite = %q", data)
	}
}
