// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"product-search-service/internal/app/service"
	"product-search-service/pkg/locker"
)

// syncLockKey serializes catalog imports across instances.
const syncLockKey = "catalog-sync"

// Syncer runs one import pass over every catalog provider.
type Syncer interface {
	SyncAll(ctx context.Context) []service.SyncResult
}

// SyncConfig holds sync scheduler configuration.
type SyncConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// SyncScheduler periodically imports catalog products. A distributed lock
// ensures a single instance imports per interval.
type SyncScheduler struct {
	syncer Syncer
	cfg    SyncConfig
	locker locker.DistributedLocker
	logger *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncScheduler creates a new SyncScheduler.
func NewSyncScheduler(syncer Syncer, cfg SyncConfig, l locker.DistributedLocker, logger *zap.Logger) *SyncScheduler {
	return &SyncScheduler{
		syncer: syncer,
		cfg:    cfg,
		locker: l,
		logger: logger.Named("sync-scheduler"),
	}
}

// Start launches the scheduler goroutine.
func (s *SyncScheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.logger.Info("starting sync scheduler",
		zap.Duration("interval", s.cfg.Interval),
		zap.Bool("run_on_startup", s.cfg.OnStartup),
	)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop cancels the scheduler and waits for an in-flight sync to finish.
func (s *SyncScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Info("sync scheduler stopped")
}

func (s *SyncScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	if s.cfg.OnStartup {
		s.RunOnce(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one locked sync. The lock TTL is the interval: after a
// clean run it is held as a cooldown, after a failed run it is released so
// another instance may retry. It reports whether this instance ran the sync.
func (s *SyncScheduler) RunOnce(ctx context.Context) bool {
	ran, err := locker.WithLock(ctx, s.locker, syncLockKey, s.cfg.Interval, func(ctx context.Context) locker.Outcome {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()

		synced, failed := 0, 0
		for _, r := range s.syncer.SyncAll(ctx) {
			if r.Error != nil {
				failed++
				continue
			}
			synced += r.Count
		}

		if failed > 0 {
			s.logger.Info("sync completed with errors, releasing lock",
				zap.Int("total_synced", synced),
				zap.Int("providers_failed", failed),
			)
			return locker.Release
		}

		s.logger.Info("sync completed, lock held for cooldown",
			zap.Int("total_synced", synced),
			zap.Duration("cooldown", s.cfg.Interval),
		)
		return locker.Hold
	})

	if err != nil {
		s.logger.Error("sync lock failed", zap.Error(err))
	}
	if !ran && err == nil {
		s.logger.Debug("another instance is syncing, skipping")
	}

	return ran
}
