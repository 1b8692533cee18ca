package ledger

import (
	"context"

	"github.com/parkside-eng/ledgerd/internal/models"
)

// completeTransaction advances a due pending transaction to completed and
// applies the transfer amount to each account participant. A transaction
// that is not yet due, or no longer pending, is left untouched and the
// call succeeds as a no-op.
//
// The caller's copy may be stale (a sweep snapshot, say), so the record is
// re-read and the preconditions re-checked after the transfer leases are
// granted; whichever writer got there first wins and the rest no-op. The
// flag save and the balance applications succeed or fail together: if any
// step fails, the save is rolled back and the transaction stays pending
// for the next sweep to retry.
func (s *Service) completeTransaction(ctx context.Context, txn *models.Transaction) error {
	if !txn.Pending || !txn.DueBy(s.now()) {
		return nil
	}

	superseded := false
	if err := s.saveWithLocks(ctx, txn, func(ctx context.Context) error {
		current, err := s.storage.GetTransaction(ctx, txn.ID)
		if err != nil {
			return err
		}
		if !current.Pending || current.Deleted() || !current.DueBy(s.now()) {
			superseded = true
			return nil
		}
		current.Pending = false
		if err := s.storage.SaveTransaction(ctx, current); err != nil {
			return err
		}
		*txn = *current
		return nil
	}); err != nil {
		return err
	}
	if superseded {
		return nil
	}

	if err := s.applyParticipantBalances(ctx, txn); err != nil {
		s.rollbackFlagSave(ctx, txn, func() { txn.Pending = true })
		return err
	}

	s.logger.Info().
		Str("transaction_id", txn.ID).
		Int64("amount_cents", txn.AmountCents).
		Msg("Transaction completed")
	return nil
}

// applyParticipantBalances moves the transfer amount between the two
// participants where they are accounts: recipient gains, sender loses,
// inverted when reversing a duplicate. If the second application fails the
// first is compensated, so a half-applied transfer is never observable.
func (s *Service) applyParticipantBalances(ctx context.Context, txn *models.Transaction) error {
	delta := txn.AmountCents
	if txn.Duplicate {
		delta = -delta
	}

	senderApplied := false
	if txn.Sender.IsAccount() {
		if err := s.applyBalanceDelta(ctx, txn.Sender.ID, -delta); err != nil {
			return err
		}
		senderApplied = true
	}

	if txn.Recipient.IsAccount() {
		if err := s.applyBalanceDelta(ctx, txn.Recipient.ID, delta); err != nil {
			if senderApplied {
				if compErr := s.applyBalanceDelta(ctx, txn.Sender.ID, delta); compErr != nil {
					s.logger.Error().Err(compErr).
						Str("transaction_id", txn.ID).
						Str("account_id", txn.Sender.ID).
						Msg("Failed to compensate sender balance")
				}
			}
			return err
		}
	}

	return nil
}

// rollbackFlagSave undoes a transition's flag change in memory via revert
// and persists the restored record. Rollback failures are logged; the
// record is then inconsistent until the next sweep or write retries it.
func (s *Service) rollbackFlagSave(ctx context.Context, txn *models.Transaction, revert func()) {
	revert()
	if err := s.saveWithLocks(ctx, txn, func(ctx context.Context) error {
		return s.storage.SaveTransaction(ctx, txn)
	}); err != nil {
		s.logger.Error().Err(err).Str("transaction_id", txn.ID).Msg("Failed to roll back transition save")
	}
}
