package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/parkside-eng/ledgerd/internal/interfaces"
	"github.com/parkside-eng/ledgerd/internal/models"
)

// CreateTransaction validates and persists a new pending transaction. When
// the date is today or earlier the completion transition runs synchronously
// inside the same locked save.
//
// If the record persists but the synchronous completion fails (a lease
// timeout, say), both the transaction and the error are returned: the
// transfer exists, stays pending, and the sweep retries it later.
func (s *Service) CreateTransaction(ctx context.Context, input interfaces.CreateTransactionInput) (*models.Transaction, error) {
	date, err := parseDate(input.TransactionDate)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ID:              uuid.New().String(),
		Sender:          input.Sender,
		Recipient:       input.Recipient,
		AmountCents:     input.AmountCents,
		TransactionDate: date,
		Description:     strings.TrimSpace(input.Description),
		Pending:         true,
		CreatedAt:       s.now(),
	}

	if err := s.validateTransaction(ctx, txn, fullChange); err != nil {
		return nil, err
	}

	persisted := false
	err = s.saveWithLocks(ctx, txn, func(ctx context.Context) error {
		if err := s.storage.SaveTransaction(ctx, txn); err != nil {
			return err
		}
		persisted = true
		return s.completeTransaction(ctx, txn)
	})
	if err != nil {
		if !persisted {
			return nil, err
		}
		return txn, err
	}

	s.logger.Info().
		Str("transaction_id", txn.ID).
		Int64("amount_cents", txn.AmountCents).
		Bool("pending", txn.Pending).
		Msg("Transaction created")
	return txn, nil
}

// UpdateTransaction applies a partial edit. Only pending, non-duplicate
// transactions are editable; conditional validations re-run for the fields
// that changed, and a date change re-attempts completion.
func (s *Service) UpdateTransaction(ctx context.Context, id string, input interfaces.UpdateTransactionInput) (*models.Transaction, error) {
	orig, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *orig
	flags := changeFlags{}
	descriptionChanged := false

	if input.Sender != nil && !input.Sender.Equal(orig.Sender) {
		updated.Sender = *input.Sender
		flags.participants = true
	}
	if input.Recipient != nil && !input.Recipient.Equal(orig.Recipient) {
		updated.Recipient = *input.Recipient
		flags.participants = true
	}
	if input.AmountCents != nil && *input.AmountCents != orig.AmountCents {
		updated.AmountCents = *input.AmountCents
		flags.amount = true
	}
	if input.TransactionDate != nil {
		date, err := parseDate(*input.TransactionDate)
		if err != nil {
			return nil, err
		}
		if !date.Equal(orig.TransactionDate) {
			updated.TransactionDate = date
			flags.date = true
		}
	}
	if input.Description != nil && strings.TrimSpace(*input.Description) != orig.Description {
		updated.Description = strings.TrimSpace(*input.Description)
		descriptionChanged = true
	}

	if !flags.any() && !descriptionChanged {
		return orig, nil
	}
	if orig.Duplicate || !orig.Pending {
		return nil, models.NewValidationError(models.MsgNonUpdatable)
	}

	if err := s.validateTransaction(ctx, &updated, flags); err != nil {
		return nil, err
	}

	persisted := false
	err = s.saveWithLocks(ctx, &updated, func(ctx context.Context) error {
		if err := s.storage.SaveTransaction(ctx, &updated); err != nil {
			return err
		}
		persisted = true
		if flags.date {
			return s.completeTransaction(ctx, &updated)
		}
		return nil
	})
	if err != nil {
		if !persisted {
			return nil, err
		}
		return &updated, err
	}

	return &updated, nil
}

// GetTransaction retrieves a live transaction by id.
func (s *Service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	txn, err := s.storage.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.Deleted() {
		return nil, fmt.Errorf("transaction '%s': %w", id, models.ErrNotFound)
	}
	return txn, nil
}

// ListTransactions returns transactions matching the query.
func (s *Service) ListTransactions(ctx context.Context, query interfaces.TransactionQuery) ([]*models.Transaction, error) {
	return s.storage.ListTransactions(ctx, query)
}

// DeleteTransaction soft-deletes a pending transaction. A completed
// transaction cannot be deleted: the record is returned unchanged along
// with the validation failure.
func (s *Service) DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	txn, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if !txn.Pending {
		return txn, models.NewValidationError(models.MsgNonDeletable)
	}
	if err := s.storage.SoftDeleteTransaction(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info().Str("transaction_id", id).Msg("Transaction deleted")
	return s.storage.GetTransaction(ctx, id)
}

// MarkDuplicate flags a completed transaction as a duplicate of a
// near-identical earlier one and reverses its economic effect through the
// same locked save path the completion used. Without a detector match the
// transition fails and nothing changes.
//
// The state guards run twice: once up front against the caller's read, and
// again on a fresh copy after the transfer leases are granted, so two
// overlapping requests cannot both reverse the balances.
func (s *Service) MarkDuplicate(ctx context.Context, id string) (*models.Transaction, error) {
	txn, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn.Pending {
		return nil, models.NewValidationError(models.MsgNotCompleted)
	}
	if txn.Duplicate {
		return nil, models.NewValidationError(models.MsgNonUpdatable)
	}

	match, err := s.hasNearDuplicate(ctx, txn)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, models.NewValidationError(models.MsgNotADuplicate)
	}

	if err := s.saveWithLocks(ctx, txn, func(ctx context.Context) error {
		current, err := s.storage.GetTransaction(ctx, txn.ID)
		if err != nil {
			return err
		}
		if current.Deleted() {
			return fmt.Errorf("transaction '%s': %w", txn.ID, models.ErrNotFound)
		}
		if current.Pending {
			return models.NewValidationError(models.MsgNotCompleted)
		}
		if current.Duplicate {
			return models.NewValidationError(models.MsgNonUpdatable)
		}
		current.Duplicate = true
		if err := s.storage.SaveTransaction(ctx, current); err != nil {
			return err
		}
		*txn = *current
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.applyParticipantBalances(ctx, txn); err != nil {
		s.rollbackFlagSave(ctx, txn, func() { txn.Duplicate = false })
		return nil, err
	}

	s.logger.Info().
		Str("transaction_id", txn.ID).
		Int64("amount_cents", txn.AmountCents).
		Msg("Transaction marked duplicate, effect reversed")
	return txn, nil
}
