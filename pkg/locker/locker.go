// Package locker provides distributed locks for coordinating work across
// service instances.
package locker

import (
	"context"
	"time"
)

// DistributedLocker acquires and releases named locks shared by all
// instances. Implementations must be safe for concurrent use.
type DistributedLocker interface {
	// Acquire tries once to take the lock. It returns false, nil when another
	// instance holds it. The lock expires after ttl unless released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release gives up a lock held by this instance. Releasing a lock that
	// is not held is a no-op.
	Release(ctx context.Context, key string) error
}

// Outcome tells WithLock whether to release the lock after fn returns.
type Outcome int

const (
	// Release frees the lock immediately.
	Release Outcome = iota
	// Hold keeps the lock until its ttl expires (cooldown).
	Hold
)

// WithLock runs fn while holding key. It returns false without calling fn
// when the lock is held elsewhere.
func WithLock(
	ctx context.Context,
	l DistributedLocker,
	key string,
	ttl time.Duration,
	fn func(ctx context.Context) Outcome,
) (bool, error) {
	acquired, err := l.Acquire(ctx, key, ttl)
	if err != nil || !acquired {
		return false, err
	}

	if fn(ctx) == Release {
		if err := l.Release(ctx, key); err != nil {
			return true, err
		}
	}

	return true, nil
}
