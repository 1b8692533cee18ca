package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parkside-eng/ledgerd/internal/models"
)

func TestMemoryManagerAcquireAndRelease(t *testing.T) {
	m := NewMemoryManager()
	defer m.Close()

	lease, err := m.Acquire(context.Background(), "account:1", 100*time.Millisecond, time.Second)
	require.NoError(t, err)
	require.Equal(t, "account:1", lease.Key())

	lease.Release()

	// Released key is immediately reusable
	lease2, err := m.Acquire(context.Background(), "account:1", 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	lease2.Release()
}

func TestMemoryManagerMutualExclusion(t *testing.T) {
	m := NewMemoryManager()
	defer m.Close()

	lease, err := m.Acquire(context.Background(), "account:1", 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	defer lease.Release()

	start := time.Now()
	_, err = m.Acquire(context.Background(), "account:1", 50*time.Millisecond, time.Second)
	require.Error(t, err)
	require.True(t, errors.Is(err, models.ErrLockTimeout), "expected lock timeout, got: %v", err)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	// A different key is unaffected
	other, err := m.Acquire(context.Background(), "account:2", 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	other.Release()
}

func TestMemoryManagerWaitsForRelease(t *testing.T) {
	m := NewMemoryManager()
	defer m.Close()

	lease, err := m.Acquire(context.Background(), "account:1", 10*time.Millisecond, time.Second)
	require.NoError(t, err)

	go func() {
		time.Sleep(30 * time.Millisecond)
		lease.Release()
	}()

	// Blocks until the holder releases, well before the wait expires
	lease2, err := m.Acquire(context.Background(), "account:1", time.Second, time.Second)
	require.NoError(t, err)
	lease2.Release()
}

func TestMemoryManagerExpiredLeaseIsTakenOver(t *testing.T) {
	m := NewMemoryManager()
	defer m.Close()

	stale, err := m.Acquire(context.Background(), "account:1", 10*time.Millisecond, 20*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	// TTL elapsed: a new acquirer takes over without the holder releasing
	fresh, err := m.Acquire(context.Background(), "account:1", 10*time.Millisecond, time.Second)
	require.NoError(t, err)

	// The stale holder's release must not free the new lease
	stale.Release()
	_, err = m.Acquire(context.Background(), "account:1", 20*time.Millisecond, time.Second)
	require.True(t, errors.Is(err, models.ErrLockTimeout))

	fresh.Release()
}

func TestMemoryManagerReleaseIsIdempotent(t *testing.T) {
	m := NewMemoryManager()
	defer m.Close()

	lease, err := m.Acquire(context.Background(), "account:1", 10*time.Millisecond, time.Second)
	require.NoError(t, err)

	lease.Release()

	lease2, err := m.Acquire(context.Background(), "account:1", 10*time.Millisecond, time.Second)
	require.NoError(t, err)

	// Double release of the old lease must not free the new holder's lease
	lease.Release()
	_, err = m.Acquire(context.Background(), "account:1", 20*time.Millisecond, time.Second)
	require.True(t, errors.Is(err, models.ErrLockTimeout))

	lease2.Release()
}

func TestMemoryManagerAcquireHonorsContext(t *testing.T) {
	m := NewMemoryManager()
	defer m.Close()

	lease, err := m.Acquire(context.Background(), "account:1", 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	defer lease.Release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = m.Acquire(ctx, "account:1", 10*time.Second, time.Second)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
}
