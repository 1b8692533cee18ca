// Package ledger implements the transfer ledger core: bank and account
// management, the transaction life cycle with its locked balance updates,
// duplicate detection, and the pending-transaction sweep.
package ledger

import (
	"context"
	"time"

	"github.com/parkside-eng/ledgerd/internal/common"
	"github.com/parkside-eng/ledgerd/internal/interfaces"
	"github.com/parkside-eng/ledgerd/internal/models"
)

// Lease timing for the two lock classes. Transfer-path leases guard the
// transaction record save; account leases guard a single balance mutation.
const (
	transferLockWait = 5 * time.Second
	transferLockTTL  = 50 * time.Second
	accountLockWait  = 60 * time.Second
	accountLockTTL   = 40 * time.Second
)

// lockProfile carries the lease timings so tests can induce fast timeouts.
type lockProfile struct {
	transferWait time.Duration
	transferTTL  time.Duration
	accountWait  time.Duration
	accountTTL   time.Duration
}

var defaultLockProfile = lockProfile{
	transferWait: transferLockWait,
	transferTTL:  transferLockTTL,
	accountWait:  accountLockWait,
	accountTTL:   accountLockTTL,
}

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService.
type Service struct {
	storage interfaces.LedgerStore
	locks   interfaces.LockManager
	logger  *common.Logger
	profile lockProfile
	now     func() time.Time
}

// NewService creates a new ledger service.
func NewService(storage interfaces.LedgerStore, locks interfaces.LockManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		locks:   locks,
		logger:  logger,
		profile: defaultLockProfile,
		now:     time.Now,
	}
}

// locksHeldKey marks a context whose call chain already holds the
// transfer-path leases for the transaction being saved.
type locksHeldKey struct{}

// saveWithLocks runs fn while holding both transfer-path leases for txn.
// The leases are acquired in canonical participant order (kind, then id),
// never in role order, so two concurrent transfers with reversed roles
// contend under a global partial order instead of deadlocking. The lease
// keys themselves stay role-scoped ("sender:<kind>:<id>",
// "recipient:<kind>:<id>").
//
// When the calling chain already holds the leases (the completion
// transition saving inside the creating save) fn runs directly; acquiring
// the same keys again would self-deadlock.
func (s *Service) saveWithLocks(ctx context.Context, txn *models.Transaction, fn func(context.Context) error) error {
	if held, ok := ctx.Value(locksHeldKey{}).(bool); ok && held {
		return fn(ctx)
	}

	firstKey := txn.Sender.LockKey("sender")
	secondKey := txn.Recipient.LockKey("recipient")
	if txn.Recipient.SortKey() < txn.Sender.SortKey() {
		firstKey, secondKey = secondKey, firstKey
	}

	firstLease, err := s.locks.Acquire(ctx, firstKey, s.profile.transferWait, s.profile.transferTTL)
	if err != nil {
		return err
	}
	defer firstLease.Release()

	secondLease, err := s.locks.Acquire(ctx, secondKey, s.profile.transferWait, s.profile.transferTTL)
	if err != nil {
		return err
	}
	defer secondLease.Release()

	return fn(context.WithValue(ctx, locksHeldKey{}, true))
}

// participant is a resolved transfer participant: its owning bank and,
// for the Account kind, the account record. A bank's owning bank is
// itself.
type participant struct {
	ref     models.ParticipantRef
	bankID  string
	account *models.Account
}

// resolveParticipant looks up the record behind a reference. Soft-deleted
// participants resolve too: existing transfers keep referencing them.
func (s *Service) resolveParticipant(ctx context.Context, ref models.ParticipantRef) (*participant, error) {
	switch ref.Kind {
	case models.KindBank:
		bank, err := s.storage.GetBank(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &participant{ref: ref, bankID: bank.ID}, nil
	case models.KindAccount:
		account, err := s.storage.GetAccount(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		return &participant{ref: ref, bankID: account.BankID, account: account}, nil
	default:
		return nil, models.NewValidationError(models.MsgUnknownParticipantKind)
	}
}

// today returns the current calendar date, normalized.
func (s *Service) today() time.Time {
	return models.DateOnly(s.now())
}
