package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"product-search-service/internal/app/service"
	"product-search-service/pkg/locker"
)

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (s *countingSyncer) SyncAll(context.Context) []service.SyncResult {
	s.calls.Add(1)
	return []service.SyncResult{{Provider: "fakestore", Count: 3, Error: s.err}}
}

func newLocker(t *testing.T) (*redis.Client, locker.DistributedLocker) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, locker.NewRedisLocker(client, "test", zap.NewNop())
}

func TestSyncScheduler_CooldownAfterSuccess(t *testing.T) {
	client, l := newLocker(t)
	syncer := &countingSyncer{}
	cfg := SyncConfig{Interval: time.Minute, Timeout: time.Second}

	first := NewSyncScheduler(syncer, cfg, l, zap.NewNop())
	second := NewSyncScheduler(syncer, cfg, locker.NewRedisLocker(client, "test", zap.NewNop()), zap.NewNop())

	assert.True(t, first.RunOnce(context.Background()))
	assert.False(t, second.RunOnce(context.Background()), "lock is held for the cooldown")
	assert.Equal(t, int32(1), syncer.calls.Load())
}

func TestSyncScheduler_ReleasesAfterFailure(t *testing.T) {
	client, l := newLocker(t)
	syncer := &countingSyncer{err: errors.New("upstream down")}
	cfg := SyncConfig{Interval: time.Minute, Timeout: time.Second}

	first := NewSyncScheduler(syncer, cfg, l, zap.NewNop())
	second := NewSyncScheduler(syncer, cfg, locker.NewRedisLocker(client, "test", zap.NewNop()), zap.NewNop())

	assert.True(t, first.RunOnce(context.Background()))
	assert.True(t, second.RunOnce(context.Background()), "a failed sync releases the lock")
	assert.Equal(t, int32(2), syncer.calls.Load())
}

func TestSyncScheduler_StartRunsOnStartup(t *testing.T) {
	_, l := newLocker(t)
	syncer := &countingSyncer{}

	s := NewSyncScheduler(syncer, SyncConfig{Interval: time.Hour, Timeout: time.Second, OnStartup: true}, l, zap.NewNop())
	s.Start(context.Background())

	require.Eventually(t, func() bool { return syncer.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.Stop()
}
