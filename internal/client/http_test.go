package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/groblegark/tollgate/internal/model"
)

func TestHTTPClientCreateGate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/gates" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		var req CreateGateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.PriceFloor != 100 || req.Beneficiary != "ac-b" {
			t.Errorf("request = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.Gate{ID: 1, PriceFloor: 100, Beneficiary: "ac-b"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	gate, err := c.CreateGate(context.Background(), &CreateGateRequest{
		PriceFloor:          100,
		IncreaseNumerator:   2,
		IncreaseDenominator: 1,
		Beneficiary:         "ac-b",
	})
	if err != nil {
		t.Fatalf("CreateGate: %v", err)
	}
	if gate.ID != 1 {
		t.Errorf("gate.ID = %d, want 1", gate.ID)
	}
}

func TestHTTPClientAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sekrit")
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestHTTPClientPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/gates/7/pass" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["payer"] != "ac-p" {
			t.Errorf("payer = %v", body["payer"])
		}
		json.NewEncoder(w).Encode(model.Passage{ID: "ps-x", GateID: 7, Cost: 100, Payment: 150})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	passage, err := c.PassThrough(context.Background(), 7, "ac-p", 150)
	if err != nil {
		t.Fatalf("PassThrough: %v", err)
	}
	if passage.ID != "ps-x" || passage.Cost != 100 {
		t.Errorf("passage = %+v", passage)
	}
}

func TestHTTPClientErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{"error": "insufficient payment: cost 100, payment 50"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	_, err := c.PassThrough(context.Background(), 1, "", 50)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "insufficient payment") {
		t.Errorf("error = %v, want server message included", err)
	}
	if !strings.Contains(err.Error(), "402") {
		t.Errorf("error = %v, want status code included", err)
	}
}

func TestHTTPClientListGatesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("beneficiary") != "ac-b" || q.Get("limit") != "10" || q.Get("offset") != "20" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(ListGatesResponse{Gates: []*model.Gate{{ID: 1}}, Total: 1})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	resp, err := c.ListGates(context.Background(), &ListGatesRequest{Beneficiary: "ac-b", Limit: 10, Offset: 20})
	if err != nil {
		t.Fatalf("ListGates: %v", err)
	}
	if resp.Total != 1 || len(resp.Gates) != 1 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestHTTPClientDeposit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts/ac-p/deposit" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.Account{ID: "ac-p", Balance: 100})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	account, err := c.Deposit(context.Background(), "ac-p", 90)
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if account.Balance != 100 {
		t.Errorf("balance = %d", account.Balance)
	}
}

func TestHTTPClientSetFrozen(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]bool{"frozen": true})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "")
	if err := c.SetFrozen(context.Background(), "ac-p", true); err != nil {
		t.Fatalf("SetFrozen: %v", err)
	}
	if gotPath != "/v1/accounts/ac-p/freeze" {
		t.Errorf("path = %s", gotPath)
	}
	if err := c.SetFrozen(context.Background(), "ac-p", false); err != nil {
		t.Fatalf("SetFrozen: %v", err)
	}
	if gotPath != "/v1/accounts/ac-p/unfreeze" {
		t.Errorf("path = %s", gotPath)
	}
}
