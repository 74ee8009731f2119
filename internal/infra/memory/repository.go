// Package memory provides an in-process ProductRepository used by tests and
// by the memory database driver.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"product-search-service/internal/domain"
)

// Repository keeps products and categories in maps guarded by a RWMutex.
// Returned products are copies, and stored products are replaced on write
// rather than mutated.
type Repository struct {
	mu         sync.RWMutex
	products   map[uint64]*domain.Product
	categories map[string]uint64
	nextID     uint64
	nextCatID  uint64
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		products:   make(map[uint64]*domain.Product),
		categories: make(map[string]uint64),
	}
}

// Seed stores products as-is, keeping their ids and category ids. It is
// meant for tests and fixtures.
func (r *Repository) Seed(products ...*domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range products {
		cp := *p
		if cp.ID == 0 {
			r.nextID++
			cp.ID = r.nextID
		} else if cp.ID > r.nextID {
			r.nextID = cp.ID
		}
		if cp.CategoryName != "" {
			if _, ok := r.categories[cp.CategoryName]; !ok {
				r.categories[cp.CategoryName] = cp.CategoryID
			}
		}
		if cp.CategoryID > r.nextCatID {
			r.nextCatID = cp.CategoryID
		}
		r.products[cp.ID] = &cp
	}
}

// live returns non-deleted products sorted by id. Caller holds the lock.
func (r *Repository) live() []*domain.Product {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if !p.Deleted {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Product) int {
		return compareID(a.ID, b.ID)
	})

	return out
}

func compareID(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func copies(products []*domain.Product) []*domain.Product {
	out := make([]*domain.Product, len(products))
	for i, p := range products {
		cp := *p
		out[i] = &cp
	}
	return out
}

func (r *Repository) FindByTitleContaining(ctx context.Context, query string) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return copies(domain.MatchTitle(query, r.live())), nil
}

func (r *Repository) FindByTitleAndCategoryPaged(
	ctx context.Context,
	query string,
	categoryIDs []uint64,
	order *domain.ProductOrder,
	page domain.PageRequest,
) (*domain.Page[*domain.Product], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := copies(domain.MatchTitle(query, r.live()))
	r.mu.RUnlock()

	if categoryIDs != nil {
		matched = slices.DeleteFunc(matched, func(p *domain.Product) bool {
			return !slices.Contains(categoryIDs, p.CategoryID)
		})
	}

	if order != nil && order.Field == domain.OrderByPrice {
		slices.SortStableFunc(matched, func(a, b *domain.Product) int {
			if order.Descending {
				return b.Price.Cmp(a.Price)
			}
			return a.Price.Cmp(b.Price)
		})
	} else if order != nil && order.Descending {
		slices.Reverse(matched)
	}

	return domain.Paginate(matched, page)
}

func (r *Repository) CountByTitleContaining(ctx context.Context, query string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(domain.MatchTitle(query, r.live()))), nil
}

func (r *Repository) GetByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok || p.Deleted {
		return nil, nil
	}
	cp := *p

	return &cp, nil
}

// categoryID resolves name to an id, creating the category on first use.
// Caller holds the write lock.
func (r *Repository) categoryID(name string) uint64 {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0
	}
	if id, ok := r.categories[name]; ok {
		return id
	}
	r.nextCatID++
	r.categories[name] = r.nextCatID

	return r.nextCatID
}

func (r *Repository) Create(ctx context.Context, p *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p.ID = r.nextID
	p.CategoryID = r.categoryID(p.CategoryName)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = p.CreatedAt

	cp := *p
	r.products[p.ID] = &cp

	return nil
}

func (r *Repository) Update(ctx context.Context, p *domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[p.ID]
	if !ok || existing.Deleted {
		return domain.NotFoundf("product %d", p.ID)
	}
	p.CategoryID = r.categoryID(p.CategoryName)
	p.UpdatedAt = time.Now().UTC()

	cp := *p
	r.products[p.ID] = &cp

	return nil
}

func (r *Repository) SoftDelete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || p.Deleted {
		return domain.NotFoundf("product %d", id)
	}
	// Stored values are replaced, never written in place: readers copy
	// them under the read lock.
	cp := *p
	cp.Deleted = true
	cp.UpdatedAt = time.Now().UTC()
	r.products[id] = &cp

	return nil
}

func (r *Repository) BulkUpsert(ctx context.Context, products []*domain.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bySource := make(map[[2]string]*domain.Product, len(r.products))
	for _, p := range r.products {
		bySource[[2]string{p.Source, p.ExternalID}] = p
	}

	now := time.Now().UTC()
	for _, p := range products {
		cp := *p
		cp.CategoryID = r.categoryID(cp.CategoryName)
		cp.UpdatedAt = now

		if existing, ok := bySource[[2]string{cp.Source, cp.ExternalID}]; ok {
			cp.ID = existing.ID
			cp.CreatedAt = existing.CreatedAt
			cp.Deleted = existing.Deleted
		} else {
			r.nextID++
			cp.ID = r.nextID
			cp.CreatedAt = now
		}
		r.products[cp.ID] = &cp
		bySource[[2]string{cp.Source, cp.ExternalID}] = &cp
	}

	return nil
}

func (r *Repository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make(map[uint64]string, len(r.categories))
	for name, id := range r.categories {
		names[id] = name
	}

	counts := make(map[string]int64)
	for _, p := range r.live() {
		name := names[p.CategoryID]
		if name == "" {
			name = p.CategoryName
		}
		counts[name]++
	}

	return counts, nil
}
