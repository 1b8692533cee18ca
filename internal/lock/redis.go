package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/parkside-eng/ledgerd/internal/common"
	"github.com/parkside-eng/ledgerd/internal/interfaces"
	"github.com/parkside-eng/ledgerd/internal/models"
)

// redisPollInterval is how often a blocked acquirer retries SET NX.
const redisPollInterval = 100 * time.Millisecond

// keyPrefix namespaces ledgerd leases inside a shared Redis.
const keyPrefix = "ledgerd:lock:"

// releaseScript deletes the key only while this lease's token still holds
// it, so releasing after expiry never clobbers another holder's lease.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Compile-time interface check
var _ interfaces.LockManager = (*RedisManager)(nil)

// RedisManager implements LockManager on Redis. A lease is a SET NX key
// with a TTL; expiry is enforced server-side, so leases survive process
// crashes and are shared across ledgerd instances.
type RedisManager struct {
	client *redis.Client
	logger *common.Logger
}

// NewRedisManager creates a Redis-backed lock manager and verifies
// connectivity.
func NewRedisManager(logger *common.Logger, addr, password string, db int) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Info().Str("addr", addr).Msg("Redis lock manager connected")
	return &RedisManager{client: client, logger: logger}, nil
}

type redisLease struct {
	manager *RedisManager
	key     string
	token   string
}

func (l *redisLease) Key() string { return l.key }

// Release deletes the lease if this holder's token is still current.
// Expired or already-released leases are left alone.
func (l *redisLease) Release() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.manager.client, []string{keyPrefix + l.key}, l.token).Err(); err != nil && err != redis.Nil {
		l.manager.logger.Warn().Err(err).Str("key", l.key).Msg("Failed to release lease")
	}
}

// Acquire takes the lease for key via SET NX, polling until wait expires.
func (m *RedisManager) Acquire(ctx context.Context, key string, wait, ttl time.Duration) (interfaces.Lease, error) {
	token := uuid.New().String()
	deadline := time.Now().Add(wait)

	for {
		ok, err := m.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %q: %w", key, err)
		}
		if ok {
			return &redisLease{manager: m, key: key, token: token}, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("lock %q not acquired within %s: %w", key, wait, models.ErrLockTimeout)
		}

		sleep := redisPollInterval
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

// Close shuts down the Redis client.
func (m *RedisManager) Close() error {
	return m.client.Close()
}
