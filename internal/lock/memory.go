// Package lock provides named, TTL-bounded mutual-exclusion leases.
//
// Two implementations share the LockManager contract: MemoryManager holds
// leases in-process and is the default (and the induced-timeout test
// double), RedisManager holds them in Redis for multi-process deployments.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/parkside-eng/ledgerd/internal/interfaces"
	"github.com/parkside-eng/ledgerd/internal/models"
)

// memoryPollInterval is how often a blocked acquirer re-checks the key.
const memoryPollInterval = 5 * time.Millisecond

// Compile-time interface check
var _ interfaces.LockManager = (*MemoryManager)(nil)

// MemoryManager implements LockManager with an in-process lease table.
type MemoryManager struct {
	mu     sync.Mutex
	leases map[string]*memoryLease
}

// NewMemoryManager creates an in-process lock manager.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{leases: make(map[string]*memoryLease)}
}

type memoryLease struct {
	manager   *MemoryManager
	key       string
	expiresAt time.Time
	released  bool
}

func (l *memoryLease) Key() string { return l.key }

// Release removes the lease if it is still the current holder. Releasing
// an expired or already-released lease is a no-op.
func (l *memoryLease) Release() {
	l.manager.mu.Lock()
	defer l.manager.mu.Unlock()
	if l.released {
		return
	}
	l.released = true
	if current, ok := l.manager.leases[l.key]; ok && current == l {
		delete(l.manager.leases, l.key)
	}
}

// Acquire takes the lease for key, waiting up to wait for the current
// holder to release or expire. The returned lease expires after ttl.
func (m *MemoryManager) Acquire(ctx context.Context, key string, wait, ttl time.Duration) (interfaces.Lease, error) {
	deadline := time.Now().Add(wait)

	for {
		if lease := m.tryAcquire(key, ttl); lease != nil {
			return lease, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("lock %q not acquired within %s: %w", key, wait, models.ErrLockTimeout)
		}

		sleep := memoryPollInterval
		if remaining < sleep {
			sleep = remaining
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %q: %w", key, ctx.Err())
		case <-time.After(sleep):
		}
	}
}

// tryAcquire takes the key immediately if it is free or its holder has
// expired, returning nil otherwise.
func (m *MemoryManager) tryAcquire(key string, ttl time.Duration) *memoryLease {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if current, ok := m.leases[key]; ok && now.Before(current.expiresAt) {
		return nil
	}

	lease := &memoryLease{
		manager:   m,
		key:       key,
		expiresAt: now.Add(ttl),
	}
	m.leases[key] = lease
	return lease
}

// Close releases all outstanding leases.
func (m *MemoryManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leases = make(map[string]*memoryLease)
	return nil
}
