package goredis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// Lock errors.
var (
	// ErrLockNotAcquired is returned when the lock is held by someone else.
	ErrLockNotAcquired = errors.New("goredis: lock not acquired")

	// ErrLockNotHeld is returned when releasing or refreshing a lock that
	// is no longer owned.
	ErrLockNotHeld = errors.New("goredis: lock not held")
)

// Lock is a distributed lock held in a Redis key. The token guards against
// releasing a lock that expired and was re-acquired by another holder.
type Lock struct {
	factory *Factory
	key     string
	token   string
	ttl     time.Duration
}

const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

const refreshScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("expire", KEYS[1], ARGV[2])
else
	return 0
end
`

// AcquireLock attempts to take the lock at key for ttl. Returns
// ErrLockNotAcquired when another holder owns it.
func (f *Factory) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	token := uuid.NewString()

	ok, err := f.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, translate(err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return &Lock{factory: f, key: key, token: token, ttl: ttl}, nil
}

// Release frees the lock if it is still owned by this holder.
func (l *Lock) Release(ctx context.Context) error {
	n, err := l.factory.client.Eval(ctx, unlockScript, []string{l.key}, l.token).Int64()
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Refresh extends the lock's TTL if it is still owned by this holder.
func (l *Lock) Refresh(ctx context.Context) error {
	n, err := l.factory.client.Eval(ctx, refreshScript, []string{l.key}, l.token, int(l.ttl.Seconds())).Int64()
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// ensure Factory keeps satisfying the capability contracts.
var (
	_ driver.Factory      = (*Factory)(nil)
	_ driver.WatchSupport = (*Factory)(nil)
	_ driver.Subscriber   = (*Factory)(nil)
)
