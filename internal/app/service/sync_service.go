package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"product-search-service/internal/domain"
)

// SyncService imports products from third-party catalogs.
type SyncService struct {
	repo      domain.ProductRepository
	providers []domain.CatalogProvider
	cache     domain.Cache
	logger    *zap.Logger
}

// NewSyncService creates a new SyncService. cache may be nil; when set it
// is cleared after a sync that changed products.
func NewSyncService(
	repo domain.ProductRepository,
	providers []domain.CatalogProvider,
	cache domain.Cache,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		repo:      repo,
		providers: providers,
		cache:     cache,
		logger:    logger,
	}
}

// SyncResult holds the result of syncing one provider.
type SyncResult struct {
	Provider string
	Count    int
	Duration time.Duration
	Error    error
}

// SyncAll syncs every provider concurrently. Partial failures are allowed.
func (s *SyncService) SyncAll(ctx context.Context) []SyncResult {
	results := make([]SyncResult, len(s.providers))
	var wg sync.WaitGroup

	s.logger.Info("starting catalog sync",
		zap.Int("provider_count", len(s.providers)),
	)

	for i, provider := range s.providers {
		wg.Add(1)
		go func(idx int, p domain.CatalogProvider) {
			defer wg.Done()
			results[idx] = s.syncProvider(ctx, p)
		}(i, provider)
	}

	wg.Wait()

	totalSynced := 0
	totalErrors := 0
	for _, r := range results {
		if r.Error != nil {
			totalErrors++
		} else {
			totalSynced += r.Count
		}
	}

	if totalSynced > 0 {
		s.clearCache(ctx)
	}

	s.logger.Info("catalog sync completed",
		zap.Int("total_synced", totalSynced),
		zap.Int("providers_failed", totalErrors),
	)

	return results
}

func (s *SyncService) syncProvider(ctx context.Context, provider domain.CatalogProvider) SyncResult {
	start := time.Now()
	result := SyncResult{Provider: provider.Name()}

	products, err := provider.Fetch(ctx)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		syncFailuresTotal.WithLabelValues(provider.Name()).Inc()
		s.logger.Warn("catalog fetch failed",
			zap.String("provider", provider.Name()),
			zap.Error(err),
		)
		return result
	}

	valid := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			s.logger.Debug("skipping invalid catalog item",
				zap.String("provider", provider.Name()),
				zap.String("external_id", p.ExternalID),
				zap.Error(err),
			)
			continue
		}
		valid = append(valid, p)
	}

	if len(valid) > 0 {
		if err := s.repo.BulkUpsert(ctx, valid); err != nil {
			result.Error = storageErr("bulk upsert products", err)
			result.Duration = time.Since(start)
			syncFailuresTotal.WithLabelValues(provider.Name()).Inc()
			s.logger.Error("bulk upsert failed",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			return result
		}
	}

	result.Count = len(valid)
	result.Duration = time.Since(start)
	syncProductsTotal.WithLabelValues(provider.Name()).Add(float64(result.Count))

	s.logger.Info("provider sync completed",
		zap.String("provider", provider.Name()),
		zap.Int("count", result.Count),
		zap.Int("skipped", len(products)-len(valid)),
		zap.Duration("duration", result.Duration),
	)

	return result
}

// SyncProvider syncs a single provider by name.
func (s *SyncService) SyncProvider(ctx context.Context, providerName string) (*SyncResult, error) {
	for _, p := range s.providers {
		if p.Name() == providerName {
			result := s.syncProvider(ctx, p)
			if result.Count > 0 {
				s.clearCache(ctx)
			}
			return &result, result.Error
		}
	}

	return nil, domain.NotFoundf("catalog provider %q", providerName)
}

// ProviderNames returns the names of all registered providers.
func (s *SyncService) ProviderNames() []string {
	names := make([]string, len(s.providers))
	for i, p := range s.providers {
		names[i] = p.Name()
	}
	return names
}

// ProviderHealth checks every provider and returns an error per name,
// nil for healthy providers.
func (s *SyncService) ProviderHealth(ctx context.Context) map[string]error {
	health := make(map[string]error, len(s.providers))
	for _, p := range s.providers {
		health[p.Name()] = p.HealthCheck(ctx)
	}
	return health
}

func (s *SyncService) clearCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("cache clear after sync failed", zap.Error(err))
	}
}
