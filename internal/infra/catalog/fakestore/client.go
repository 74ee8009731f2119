// Package fakestore implements a catalog provider for FakeStore-style
// product APIs (GET /products returning a JSON array).
package fakestore

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"product-search-service/internal/domain"
	"product-search-service/internal/infra/catalog"
)

// Name is the provider identifier and the Source of imported products.
const Name = "fakestore"

const (
	productsEndpoint = "/products"
	healthEndpoint   = "/health"
)

// Client implements domain.CatalogProvider.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[[]Item]
	logger *zap.Logger
}

// New creates a FakeStore client.
func New(cfg catalog.ClientConfig, logger *zap.Logger) *Client {
	logger = logger.With(zap.String("provider", Name))

	return &Client{
		client: catalog.NewRestyClient(cfg),
		cb:     catalog.NewCircuitBreaker[[]Item](Name, cfg.CB, logger),
		logger: logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return Name
}

// Fetch retrieves every product through the circuit breaker.
func (c *Client) Fetch(ctx context.Context) ([]*domain.Product, error) {
	items, err := c.cb.Execute(func() ([]Item, error) {
		var items []Item
		resp, err := c.client.R().
			SetContext(ctx).
			SetResult(&items).
			Get(productsEndpoint)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%s returned status %d", Name, resp.StatusCode())
		}

		return items, nil
	})
	if err != nil {
		c.logger.Warn("catalog fetch failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("fetching from %s: %w", Name, err)
	}

	products := make([]*domain.Product, 0, len(items))
	for i := range items {
		products = append(products, items[i].ToDomain(Name))
	}

	c.logger.Info("catalog fetch completed", zap.Int("count", len(products)))

	return products, nil
}

// HealthCheck verifies the API is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(healthEndpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}
