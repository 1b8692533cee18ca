package server

import "net/http"

type bankRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := s.ledger.ListBanks(r.Context())
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, banks)
}

func (s *Server) handleCreateBank(w http.ResponseWriter, r *http.Request) {
	var req bankRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	bank, err := s.ledger.CreateBank(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, bank)
}

func (s *Server) handleGetBank(w http.ResponseWriter, r *http.Request, id string) {
	bank, err := s.ledger.GetBank(r.Context(), id)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, bank)
}

func (s *Server) handleUpdateBank(w http.ResponseWriter, r *http.Request, id string) {
	var req bankRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	bank, err := s.ledger.UpdateBank(r.Context(), id, req.Name)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, bank)
}

func (s *Server) handleDeleteBank(w http.ResponseWriter, r *http.Request, id string) {
	bank, err := s.ledger.DeleteBank(r.Context(), id)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, bank)
}
