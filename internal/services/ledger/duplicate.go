package ledger

import (
	"context"
	"time"

	"github.com/parkside-eng/ledgerd/internal/models"
)

// duplicateWindow is how close two otherwise-identical transactions'
// creation times must be for one to count as a duplicate of the other.
const duplicateWindow = time.Minute

// hasNearDuplicate reports whether another live transaction exists with
// the same sender, recipient, date, and amount, created within a minute of
// txn. This is a heuristic, not a dedup key: two genuinely separate
// transfers submitted in the same minute with identical fields are
// indistinguishable from duplicates by this rule.
func (s *Service) hasNearDuplicate(ctx context.Context, txn *models.Transaction) (bool, error) {
	matches, err := s.storage.FindNearMatches(ctx, txn, duplicateWindow)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}
