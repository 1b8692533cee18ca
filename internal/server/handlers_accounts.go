package server

import (
	"net/http"

	"github.com/parkside-eng/ledgerd/internal/interfaces"
)

type accountRequest struct {
	Name   string `json:"name"`
	BankID string `json:"bank_id"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	order := interfaces.OrderSpec{
		Attribute: r.URL.Query().Get("order_attr"),
		Direction: r.URL.Query().Get("order_dir"),
	}
	accounts, err := s.ledger.ListAccounts(r.Context(), order)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	account, err := s.ledger.CreateAccount(r.Context(), req.Name, req.BankID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, account)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request, id string) {
	account, err := s.ledger.GetAccount(r.Context(), id)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, account)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request, id string) {
	var req accountRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	account, err := s.ledger.UpdateAccount(r.Context(), id, req.Name)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request, id string) {
	account, err := s.ledger.DeleteAccount(r.Context(), id)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, account)
}

func (s *Server) handleAccountBalance(w http.ResponseWriter, r *http.Request, id string) {
	balance, err := s.ledger.GetAccountBalance(r.Context(), id)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"account_id":    id,
		"balance_cents": balance,
	})
}
