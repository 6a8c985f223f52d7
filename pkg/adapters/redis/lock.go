package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/lattice/pkg/ports"
)

var (
	// ErrLockAcquire is returned when the lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire distributed lock")
)

// releaseScript deletes the lock key only if it still holds our value, so
// a lock that expired and was re-acquired by someone else is never
// released by us.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Locker implements ports.DistributedLocker using Redis.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

// Lock acquires a distributed lock for the given key using Redis SET NX PX,
// polling with backoff until the context is canceled.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	val := fmt.Sprintf("%d", time.Now().UnixNano())

	unlock, acquired, err := l.tryAcquire(ctx, lockKey, val, ttl)
	if err != nil {
		return nil, err
	}
	if acquired {
		return unlock, nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			unlock, acquired, err := l.tryAcquire(ctx, lockKey, val, ttl)
			if err != nil {
				return nil, err
			}
			if acquired {
				return unlock, nil
			}
		}
	}
}

func (l *Locker) tryAcquire(ctx context.Context, lockKey, val string, ttl time.Duration) (ports.UnlockFunc, bool, error) {
	success, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis error acquiring lock: %w", err)
	}
	if !success {
		return nil, false, nil
	}
	return func(ctx context.Context) error {
		return l.client.Eval(ctx, releaseScript, []string{lockKey}, val).Err()
	}, true, nil
}
