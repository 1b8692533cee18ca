package server

import (
	"net/http"
	"strings"
)

// registerRoutes wires all API endpoints onto the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	mux.HandleFunc("/api/v1/banks", s.handleBanks)
	mux.HandleFunc("/api/v1/banks/", s.handleBankByID)

	mux.HandleFunc("/api/v1/accounts", s.handleAccounts)
	mux.HandleFunc("/api/v1/accounts/", s.handleAccountByID)

	mux.HandleFunc("/api/v1/transactions", s.handleTransactions)
	mux.HandleFunc("/api/v1/transactions/", s.handleTransactionByID)
}

func (s *Server) handleBanks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListBanks(w, r)
	case http.MethodPost:
		s.handleCreateBank(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleBankByID(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/v1/banks/", "")
	if id == "" {
		WriteErrors(w, http.StatusBadRequest, "bank id is required")
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleGetBank(w, r, id)
	case http.MethodPut, http.MethodPatch:
		s.handleUpdateBank(w, r, id)
	case http.MethodDelete:
		s.handleDeleteBank(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListAccounts(w, r)
	case http.MethodPost:
		s.handleCreateAccount(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleAccountByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/accounts/")
	if strings.HasSuffix(rest, "/balance") {
		id := strings.TrimSuffix(rest, "/balance")
		if id == "" {
			WriteErrors(w, http.StatusBadRequest, "account id is required")
			return
		}
		if !RequireMethod(w, r, http.MethodGet) {
			return
		}
		s.handleAccountBalance(w, r, id)
		return
	}

	id := PathParam(r, "/api/v1/accounts/", "")
	if id == "" {
		WriteErrors(w, http.StatusBadRequest, "account id is required")
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleGetAccount(w, r, id)
	case http.MethodPut, http.MethodPatch:
		s.handleUpdateAccount(w, r, id)
	case http.MethodDelete:
		s.handleDeleteAccount(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTransactions(w, r)
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/transactions/")
	if strings.HasSuffix(rest, "/mark_duplicate") {
		id := strings.TrimSuffix(rest, "/mark_duplicate")
		if id == "" {
			WriteErrors(w, http.StatusBadRequest, "transaction id is required")
			return
		}
		if !RequireMethod(w, r, http.MethodPut, http.MethodPatch) {
			return
		}
		s.handleMarkDuplicate(w, r, id)
		return
	}

	id := PathParam(r, "/api/v1/transactions/", "")
	if id == "" {
		WriteErrors(w, http.StatusBadRequest, "transaction id is required")
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.handleGetTransaction(w, r, id)
	case http.MethodPut, http.MethodPatch:
		s.handleUpdateTransaction(w, r, id)
	case http.MethodDelete:
		s.handleDeleteTransaction(w, r, id)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}
