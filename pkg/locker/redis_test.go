package locker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testLockKey = "catalog-sync"

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisLocker_AcquireUsesPrefix(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := NewRedisLocker(client, "product-search:lock", zap.NewNop())

	acquired, err := locker.Acquire(context.Background(), testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.True(t, mr.Exists("product-search:lock:catalog-sync"))
}

func TestRedisLocker_AlreadyHeld(t *testing.T) {
	client, _ := setupTestRedis(t)
	first := NewRedisLocker(client, "lock", zap.NewNop())
	second := NewRedisLocker(client, "lock", zap.NewNop())
	ctx := context.Background()

	acquired, err := first.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = second.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestRedisLocker_ReleaseAllowsReacquire(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := NewRedisLocker(client, "", zap.NewNop())
	ctx := context.Background()

	acquired, err := locker.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, locker.Release(ctx, testLockKey))

	acquired, err = locker.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_ReleaseNotOwnedIsNoop(t *testing.T) {
	client, mr := setupTestRedis(t)
	owner := NewRedisLocker(client, "", zap.NewNop())
	other := NewRedisLocker(client, "", zap.NewNop())
	ctx := context.Background()

	acquired, err := owner.Acquire(ctx, testLockKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, other.Release(ctx, testLockKey))
	assert.True(t, mr.Exists(testLockKey), "lock must survive a release by a non-owner")
}

func TestRedisLocker_ConcurrentAcquisition(t *testing.T) {
	client, _ := setupTestRedis(t)

	const instances = 5
	results := make(chan bool, instances)
	for i := 0; i < instances; i++ {
		go func() {
			l := NewRedisLocker(client, "", zap.NewNop())
			acquired, _ := l.Acquire(context.Background(), testLockKey, 2*time.Second)
			results <- acquired
		}()
	}

	winners := 0
	for i := 0; i < instances; i++ {
		if <-results {
			winners++
		}
	}

	assert.Equal(t, 1, winners)
}

func TestRedisLocker_CanceledContext(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := NewRedisLocker(client, "", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acquired, err := locker.Acquire(ctx, testLockKey, 5*time.Second)
	assert.Error(t, err)
	assert.False(t, acquired)
}

// stubLocker records calls for WithLock tests.
type stubLocker struct {
	acquire  bool
	err      error
	released int
}

func (s *stubLocker) Acquire(context.Context, string, time.Duration) (bool, error) {
	return s.acquire, s.err
}

func (s *stubLocker) Release(context.Context, string) error {
	s.released++
	return nil
}

func TestWithLock(t *testing.T) {
	ctx := context.Background()

	t.Run("runs and releases", func(t *testing.T) {
		l := &stubLocker{acquire: true}
		ran := false
		ok, err := WithLock(ctx, l, "k", time.Minute, func(context.Context) Outcome {
			ran = true
			return Release
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, ran)
		assert.Equal(t, 1, l.released)
	})

	t.Run("holds for cooldown", func(t *testing.T) {
		l := &stubLocker{acquire: true}
		ok, err := WithLock(ctx, l, "k", time.Minute, func(context.Context) Outcome { return Hold })
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, l.released)
	})

	t.Run("skips when held elsewhere", func(t *testing.T) {
		l := &stubLocker{}
		ok, err := WithLock(ctx, l, "k", time.Minute, func(context.Context) Outcome {
			t.Fatal("fn must not run")
			return Release
		})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("propagates acquire errors", func(t *testing.T) {
		boom := errors.New("redis down")
		ok, err := WithLock(ctx, &stubLocker{err: boom}, "k", time.Minute, func(context.Context) Outcome {
			return Release
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, ok)
	})
}
