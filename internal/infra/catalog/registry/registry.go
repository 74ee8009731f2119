// Package registry builds the configured catalog providers.
package registry

import (
	"go.uber.org/zap"

	"product-search-service/internal/config"
	"product-search-service/internal/domain"
	"product-search-service/internal/infra/catalog"
	"product-search-service/internal/infra/catalog/fakestore"
)

// NewProviders returns the enabled catalog providers, or none when the
// catalog is disabled.
func NewProviders(cfg config.CatalogConfig, logger *zap.Logger) []domain.CatalogProvider {
	if !cfg.Enabled {
		return nil
	}

	return []domain.CatalogProvider{
		fakestore.New(clientConfig(cfg), logger),
	}
}

func clientConfig(cfg config.CatalogConfig) catalog.ClientConfig {
	return catalog.ClientConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Retry: catalog.RetryConfig{
			MaxAttempts: cfg.Retry.MaxAttempts,
			WaitTime:    cfg.Retry.WaitTime,
			MaxWaitTime: cfg.Retry.MaxWaitTime,
		},
		CB: catalog.CBConfig{
			MaxRequests:  cfg.CB.MaxRequests,
			Interval:     cfg.CB.Interval,
			Timeout:      cfg.CB.Timeout,
			FailureRatio: cfg.CB.FailureRatio,
			MinRequests:  cfg.CB.MinRequests,
		},
	}
}
