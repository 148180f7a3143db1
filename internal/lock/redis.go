package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces lock keys away from rate-limit and cache
// entries that share the same Redis database.
const redisKeyPrefix = "lock:"

// RedisLocker implements Locker with SET NX.  Every acquired key carries
// a TTL so a crashed holder cannot wedge the lock forever; the TTL should
// comfortably exceed the longest expected critical section.
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLocker returns a locker backed by the given client.  A
// non-positive ttl falls back to five minutes.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

// TryAcquire sets the lock key only if it does not exist.
func (l *RedisLocker) TryAcquire(ctx context.Context, name string) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, redisKeyPrefix+name, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock %s: setnx: %w", name, err)
	}
	return ok, nil
}

// Release deletes the lock key.  Deleting a key that already expired is
// harmless.
func (l *RedisLocker) Release(ctx context.Context, name string) error {
	if err := l.rdb.Del(ctx, redisKeyPrefix+name).Err(); err != nil {
		return fmt.Errorf("lock %s: del: %w", name, err)
	}
	return nil
}
