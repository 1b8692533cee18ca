package server

import (
	"net/http"

	"github.com/parkside-eng/ledgerd/internal/interfaces"
	"github.com/parkside-eng/ledgerd/internal/models"
)

type createTransactionRequest struct {
	Sender          models.ParticipantRef `json:"sender"`
	Recipient       models.ParticipantRef `json:"recipient"`
	AmountCents     int64                 `json:"amount_cents"`
	TransactionDate string                `json:"transaction_date"`
	Description     string                `json:"description"`
}

type updateTransactionRequest struct {
	Sender          *models.ParticipantRef `json:"sender"`
	Recipient       *models.ParticipantRef `json:"recipient"`
	AmountCents     *int64                 `json:"amount_cents"`
	TransactionDate *string                `json:"transaction_date"`
	Description     *string                `json:"description"`
}

// transactionResponse wraps a transaction with warnings for writes that
// persisted the record but deferred its completion. Without warnings it
// serializes as the bare transaction.
type transactionResponse struct {
	*models.Transaction
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := interfaces.TransactionQuery{
		AccountID:   q.Get("account_id"),
		BankID:      q.Get("bank_id"),
		OnlyDeleted: q.Get("deleted") == "only",
		Order: interfaces.OrderSpec{
			Attribute: q.Get("order_attr"),
			Direction: q.Get("order_dir"),
		},
	}
	txns, err := s.ledger.ListTransactions(r.Context(), query)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, txns)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	txn, err := s.ledger.CreateTransaction(r.Context(), interfaces.CreateTransactionInput{
		Sender:          req.Sender,
		Recipient:       req.Recipient,
		AmountCents:     req.AmountCents,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
	})
	if err != nil {
		// A persisted transaction with a completion failure still exists;
		// report it as created but pending, carrying the deferral reason.
		if txn != nil {
			s.logger.Warn().Err(err).Str("transaction_id", txn.ID).Msg("Transaction persisted but completion deferred")
			WriteJSON(w, http.StatusCreated, transactionResponse{Transaction: txn, Warnings: []string{err.Error()}})
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, txn)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request, id string) {
	txn, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, txn)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, id string) {
	var req updateTransactionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	txn, err := s.ledger.UpdateTransaction(r.Context(), id, interfaces.UpdateTransactionInput{
		Sender:          req.Sender,
		Recipient:       req.Recipient,
		AmountCents:     req.AmountCents,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
	})
	if err != nil {
		if txn != nil {
			s.logger.Warn().Err(err).Str("transaction_id", txn.ID).Msg("Transaction updated but completion deferred")
			WriteJSON(w, http.StatusOK, transactionResponse{Transaction: txn, Warnings: []string{err.Error()}})
			return
		}
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, txn)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, id string) {
	txn, err := s.ledger.DeleteTransaction(r.Context(), id)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, txn)
}

func (s *Server) handleMarkDuplicate(w http.ResponseWriter, r *http.Request, id string) {
	txn, err := s.ledger.MarkDuplicate(r.Context(), id)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, txn)
}
