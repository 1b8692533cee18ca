package interfaces

import (
	"context"
	"time"
)

// Lease is a time-bounded exclusive hold on a named lock key.
type Lease interface {
	// Key returns the lock key this lease holds.
	Key() string

	// Release gives up the lease. Releasing an expired or already-released
	// lease is a no-op, never an error.
	Release()
}

// LockManager hands out named, TTL-bounded mutual-exclusion leases. A lease
// is exclusive per key; a second acquirer blocks up to wait for the holder
// to release or for the lease to expire, then fails with an error wrapping
// models.ErrLockTimeout.
type LockManager interface {
	Acquire(ctx context.Context, key string, wait, ttl time.Duration) (Lease, error)
	Close() error
}
