package ledger

import (
	"context"
)

// applyBalanceDelta adjusts one account's balance by deltaCents while
// holding the account's lease. This is the only write path for balances.
// A lock timeout fails the operation without touching the balance; a delta
// that would drive the balance negative is rejected by the store's
// persistence-time check, also leaving the balance unchanged.
func (s *Service) applyBalanceDelta(ctx context.Context, accountID string, deltaCents int64) error {
	lease, err := s.locks.Acquire(ctx, "account:"+accountID, s.profile.accountWait, s.profile.accountTTL)
	if err != nil {
		s.logger.Warn().Err(err).Str("account_id", accountID).Msg("Balance update lock not acquired")
		return err
	}
	defer lease.Release()

	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}

	account.BalanceCents += deltaCents
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return err
	}

	s.logger.Debug().
		Str("account_id", accountID).
		Int64("delta_cents", deltaCents).
		Int64("balance_cents", account.BalanceCents).
		Msg("Account balance updated")
	return nil
}
