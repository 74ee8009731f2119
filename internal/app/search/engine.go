package search

import (
	"context"

	"product-search-service/internal/domain"
)

// Engine executes a compiled plan against a product store.
type Engine interface {
	// Name identifies the engine in logs and metrics.
	Name() string

	// Supports reports whether the engine can execute plan.
	Supports(plan *Plan) bool

	// Execute runs plan. Errors wrap domain.ErrNotFound when the base query
	// matches nothing, or domain.ErrUpstreamUnavailable when storage fails.
	Execute(ctx context.Context, plan *Plan) (*domain.Page[*domain.Product], error)
}

// Engine names.
const (
	EngineInProcess = "in_process"
	EngineStorage   = "storage"
)

// InProcessEngine loads every title match and filters, sorts and
// paginates in memory. It supports every plan.
type InProcessEngine struct {
	repo domain.ProductRepository
}

func NewInProcessEngine(repo domain.ProductRepository) *InProcessEngine {
	return &InProcessEngine{repo: repo}
}

func (e *InProcessEngine) Name() string { return EngineInProcess }

func (e *InProcessEngine) Supports(*Plan) bool { return true }

func (e *InProcessEngine) Execute(ctx context.Context, plan *Plan) (*domain.Page[*domain.Product], error) {
	candidates, err := e.repo.FindByTitleContaining(ctx, plan.Query)
	if err != nil {
		return nil, domain.Unavailable("find products by title", err)
	}
	if len(candidates) == 0 {
		return nil, domain.NotFoundf("no products match %q", plan.Query)
	}

	return domain.Paginate(plan.Refine(candidates), plan.Page)
}

// StorageEngine pushes the title match, category membership, ordering and
// pagination into a single repository query. Only category filters can be
// pushed down.
type StorageEngine struct {
	repo domain.ProductRepository
}

func NewStorageEngine(repo domain.ProductRepository) *StorageEngine {
	return &StorageEngine{repo: repo}
}

func (e *StorageEngine) Name() string { return EngineStorage }

func (e *StorageEngine) Supports(plan *Plan) bool {
	for _, bf := range plan.Filters {
		if bf.Filter.Key() != FilterCategory {
			return false
		}
	}

	return true
}

func (e *StorageEngine) Execute(ctx context.Context, plan *Plan) (*domain.Page[*domain.Product], error) {
	categoryIDs := plan.CategoryIDs()

	page, err := e.repo.FindByTitleAndCategoryPaged(ctx, plan.Query, categoryIDs, plan.Sorter.Order(), plan.Page)
	if err != nil {
		return nil, domain.Unavailable("find products page", err)
	}
	if page.TotalElements > 0 {
		return page, nil
	}

	// Zero rows: NotFound only if the title alone matches nothing.
	if categoryIDs == nil {
		return nil, domain.NotFoundf("no products match %q", plan.Query)
	}
	count, err := e.repo.CountByTitleContaining(ctx, plan.Query)
	if err != nil {
		return nil, domain.Unavailable("count products by title", err)
	}
	if count == 0 {
		return nil, domain.NotFoundf("no products match %q", plan.Query)
	}

	return page, nil
}
