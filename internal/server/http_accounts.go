package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/groblegark/tollgate/internal/events"
	"github.com/groblegark/tollgate/internal/idgen"
	"github.com/groblegark/tollgate/internal/model"
	"github.com/groblegark/tollgate/internal/store"
)

type createAccountInput struct {
	Name string `json:"name"`
}

type depositInput struct {
	Amount uint64 `json:"amount"`
}

// handleCreateAccount handles POST /v1/accounts.
func (s *TollServer) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var in createAccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.GenerateAccount()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	account := &model.Account{ID: id, Name: in.Name}
	if err := s.store.CreateAccount(r.Context(), account); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordAndPublish(r.Context(), events.TopicAccountCreated, 0, in.Name, events.AccountCreated{Account: account})

	writeJSON(w, http.StatusCreated, account)
}

// handleGetAccount handles GET /v1/accounts/{id}.
func (s *TollServer) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	account, err := s.store.GetAccount(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// handleListAccounts handles GET /v1/accounts.
func (s *TollServer) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []*model.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

// handleDeposit handles POST /v1/accounts/{id}/deposit.
// Deposits are external top-ups; they do not pass through any gate.
func (s *TollServer) handleDeposit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var in depositInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Amount == 0 || in.Amount > math.MaxInt64 {
		writeError(w, http.StatusBadRequest, "amount must be between 1 and 2^63-1")
		return
	}

	if err := s.store.CreditAccount(r.Context(), id, in.Amount); err != nil {
		switch {
		case errors.Is(err, store.ErrAccountNotFound):
			writeError(w, http.StatusNotFound, "account not found")
		case errors.Is(err, store.ErrAccountFrozen):
			writeError(w, http.StatusConflict, "account frozen")
		default:
			writeError(w, http.StatusInternalServerError, "failed to deposit")
		}
		return
	}

	s.recordAndPublish(r.Context(), events.TopicAccountDeposited, 0, id, events.AccountDeposited{
		AccountID: id,
		Amount:    in.Amount,
	})

	account, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get account after deposit")
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// handleFreeze handles POST /v1/accounts/{id}/freeze.
func (s *TollServer) handleFreeze(w http.ResponseWriter, r *http.Request) {
	s.setFrozen(w, r, true)
}

// handleUnfreeze handles POST /v1/accounts/{id}/unfreeze.
func (s *TollServer) handleUnfreeze(w http.ResponseWriter, r *http.Request) {
	s.setFrozen(w, r, false)
}

func (s *TollServer) setFrozen(w http.ResponseWriter, r *http.Request, frozen bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.SetAccountFrozen(r.Context(), id, frozen); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update account")
		return
	}

	if frozen {
		s.recordAndPublish(r.Context(), events.TopicAccountFrozen, 0, id, events.AccountFrozen{AccountID: id})
	} else {
		s.recordAndPublish(r.Context(), events.TopicAccountUnfrozen, 0, id, events.AccountUnfrozen{AccountID: id})
	}

	writeJSON(w, http.StatusOK, map[string]bool{"frozen": frozen})
}
