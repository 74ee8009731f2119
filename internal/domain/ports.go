package domain

import (
	"context"
	"time"
)

// ProductRepository defines product persistence operations.
// Implementations: internal/infra/postgres, internal/infra/memory.
//
// All list operations exclude soft-deleted products and order by ascending
// id unless an explicit ProductOrder is given.
type ProductRepository interface {
	// FindByTitleContaining returns every product whose title contains query
	// (case-insensitive). No match yields an empty slice, not an error.
	FindByTitleContaining(ctx context.Context, query string) ([]*Product, error)

	// FindByTitleAndCategoryPaged pushes title match, category membership,
	// ordering and pagination down to storage. A nil categoryIDs means no
	// category restriction; an empty non-nil slice matches nothing.
	FindByTitleAndCategoryPaged(
		ctx context.Context,
		query string,
		categoryIDs []uint64,
		order *ProductOrder,
		page PageRequest,
	) (*Page[*Product], error)

	// CountByTitleContaining counts products whose title contains query.
	CountByTitleContaining(ctx context.Context, query string) (int64, error)

	// GetByID returns nil, nil when the product does not exist or is deleted.
	GetByID(ctx context.Context, id uint64) (*Product, error)

	// Create inserts a product, resolving CategoryName to a category
	// (created on first use).
	Create(ctx context.Context, p *Product) error

	// Update saves all fields of an existing product.
	Update(ctx context.Context, p *Product) error

	// SoftDelete marks a product deleted. Missing ids return ErrNotFound.
	SoftDelete(ctx context.Context, id uint64) error

	// BulkUpsert creates or updates products keyed by (Source, ExternalID).
	BulkUpsert(ctx context.Context, products []*Product) error

	// CountByCategory returns live product counts keyed by category name.
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

// CatalogProvider is a third-party product catalog products are imported from.
// Implementations: internal/infra/catalog/fakestore.
type CatalogProvider interface {
	// Name returns the provider identifier, also used as Product.Source.
	Name() string

	// Fetch retrieves every product the provider exposes.
	Fetch(ctx context.Context) ([]*Product, error)

	// HealthCheck verifies the provider is reachable.
	HealthCheck(ctx context.Context) error
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/redis.
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
