package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/groblegark/tollgate/internal/events"
	"github.com/groblegark/tollgate/internal/model"
	"github.com/groblegark/tollgate/internal/registry"
)

type createGateInput struct {
	PriceFloor          uint64 `json:"price_floor"`
	DecayRate           uint64 `json:"decay_rate"`
	IncreaseNumerator   uint64 `json:"increase_num"`
	IncreaseDenominator uint64 `json:"increase_den"`
	Beneficiary         string `json:"beneficiary"`
	CreatedBy           string `json:"created_by"`
}

type passInput struct {
	Payer   string `json:"payer"`
	Payment uint64 `json:"payment"`
}

// handleCreateGate handles POST /v1/gates.
// Gate registration is open to any caller; restriction belongs in a wrapping
// layer, not here.
func (s *TollServer) handleCreateGate(w http.ResponseWriter, r *http.Request) {
	var in createGateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Beneficiary == "" {
		writeError(w, http.StatusBadRequest, "beneficiary is required")
		return
	}

	gate, err := s.registry.CreateGate(r.Context(), registry.CreateGateParams{
		PriceFloor:          in.PriceFloor,
		DecayRate:           in.DecayRate,
		IncreaseNumerator:   in.IncreaseNumerator,
		IncreaseDenominator: in.IncreaseDenominator,
		Beneficiary:         in.Beneficiary,
		CreatedBy:           in.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, registry.ErrZeroDenominator) || errors.Is(err, registry.ErrValueOutOfRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordAndPublish(r.Context(), events.TopicGateCreated, gate.ID, in.CreatedBy, events.GateCreated{Gate: gate})

	writeJSON(w, http.StatusCreated, gate)
}

// handleListGates handles GET /v1/gates.
func (s *TollServer) handleListGates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.GateFilter{
		Beneficiary: q.Get("beneficiary"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	gates, total, err := s.store.ListGates(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list gates")
		return
	}

	// Ensure gates is never null in JSON output.
	if gates == nil {
		gates = []*model.Gate{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"gates": gates,
		"total": total,
	})
}

// handleGetGate handles GET /v1/gates/{id}.
func (s *TollServer) handleGetGate(w http.ResponseWriter, r *http.Request) {
	id, ok := gateID(w, r)
	if !ok {
		return
	}

	gate, err := s.store.GetGate(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "gate not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get gate")
		return
	}

	writeJSON(w, http.StatusOK, gate)
}

// handleGetCost handles GET /v1/gates/{id}/cost.
// An unregistered id prices at zero rather than erroring; this mirrors the
// registry semantics and must not be used as an existence check.
func (s *TollServer) handleGetCost(w http.ResponseWriter, r *http.Request) {
	id, ok := gateID(w, r)
	if !ok {
		return
	}

	price, err := s.registry.GetCost(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute cost")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"gate_id": id,
		"price":   price,
	})
}

// handlePassThrough handles POST /v1/gates/{id}/pass.
func (s *TollServer) handlePassThrough(w http.ResponseWriter, r *http.Request) {
	id, ok := gateID(w, r)
	if !ok {
		return
	}

	var in passInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	passage, err := s.registry.PassThrough(r.Context(), id, in.Payer, in.Payment)
	switch {
	case errors.Is(err, registry.ErrGateNotFound):
		writeError(w, http.StatusNotFound, "gate not found")
		return
	case errors.Is(err, registry.ErrInsufficientPayment):
		writeError(w, http.StatusPaymentRequired, err.Error())
		return
	case errors.Is(err, registry.ErrTransferFailed):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, registry.ErrPriceOverflow), errors.Is(err, registry.ErrValueOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordAndPublish(r.Context(), events.TopicGatePassed, id, in.Payer, events.GatePassed{Passage: passage})

	writeJSON(w, http.StatusOK, passage)
}

// handleListPassages handles GET /v1/gates/{id}/passages.
func (s *TollServer) handleListPassages(w http.ResponseWriter, r *http.Request) {
	id, ok := gateID(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	passages, err := s.store.ListPassages(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list passages")
		return
	}
	if passages == nil {
		passages = []*model.Passage{}
	}
	writeJSON(w, http.StatusOK, passages)
}

// handleGetEvents handles GET /v1/gates/{id}/events.
func (s *TollServer) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := gateID(w, r)
	if !ok {
		return
	}

	evts, err := s.store.GetEvents(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get events")
		return
	}
	if evts == nil {
		evts = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, evts)
}

// gateID parses the {id} path value. On failure it writes a 400 and returns
// ok=false.
func gateID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid gate id")
		return 0, false
	}
	return id, true
}
