package ledger

import (
	"context"
	"time"
)

// RunSweep completes every live pending transaction whose date has
// arrived. One transaction's failure is logged and skipped; it stays
// pending and the next sweep run retries it. Returns the completed count.
func (s *Service) RunSweep(ctx context.Context) (int, error) {
	start := time.Now()

	due, err := s.storage.PendingDue(ctx, s.now())
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, txn := range due {
		if err := s.completeTransaction(ctx, txn); err != nil {
			s.logger.Warn().Err(err).
				Str("transaction_id", txn.ID).
				Msg("Sweep: failed to complete transaction")
			continue
		}
		completed++
	}

	s.logger.Info().
		Int("due", len(due)).
		Int("completed", completed).
		Dur("elapsed", time.Since(start)).
		Msg("Pending sweep finished")
	return completed, nil
}
