package memory

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-search-service/internal/domain"
)

func seeded() *Repository {
	r := NewRepository()
	r.Seed(
		&domain.Product{ID: 1, Title: "Red Phone", Price: decimal.NewFromInt(30), CategoryID: 1, CategoryName: "phones"},
		&domain.Product{ID: 2, Title: "Blue Phone", Price: decimal.NewFromInt(10), CategoryID: 1, CategoryName: "phones"},
		&domain.Product{ID: 3, Title: "Phone Case", Price: decimal.NewFromInt(10), CategoryID: 2, CategoryName: "accessories"},
		&domain.Product{ID: 4, Title: "Laptop", Price: decimal.NewFromInt(900), CategoryID: 3, CategoryName: "laptops"},
	)
	return r
}

func productIDs(products []*domain.Product) []uint64 {
	out := make([]uint64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestRepository_FindByTitleContaining(t *testing.T) {
	r := seeded()

	found, err := r.FindByTitleContaining(context.Background(), "PHONE")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, productIDs(found))

	found[0].Title = "mutated"
	again, _ := r.FindByTitleContaining(context.Background(), "phone")
	assert.Equal(t, "Red Phone", again[0].Title)
}

func TestRepository_FindByTitleAndCategoryPaged(t *testing.T) {
	r := seeded()
	ctx := context.Background()

	page, err := r.FindByTitleAndCategoryPaged(ctx, "phone", []uint64{1, 2},
		&domain.ProductOrder{Field: domain.OrderByPrice}, domain.PageRequest{PageNumber: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, productIDs(page.Content))
	assert.Equal(t, int64(3), page.TotalElements)
	assert.True(t, page.HasNext)

	page, err = r.FindByTitleAndCategoryPaged(ctx, "phone", []uint64{},
		nil, domain.PageRequest{PageNumber: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Content)

	page, err = r.FindByTitleAndCategoryPaged(ctx, "", nil,
		&domain.ProductOrder{Field: domain.OrderByID, Descending: true}, domain.PageRequest{PageNumber: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 3, 2, 1}, productIDs(page.Content))

	page, err = r.FindByTitleAndCategoryPaged(ctx, "", nil, nil, domain.PageRequest{PageNumber: math.MaxInt, PageSize: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(4), page.TotalElements)
}

// Run with -race: paged reads must not observe soft deletes in progress.
func TestRepository_ConcurrentPagedReadsAndDeletes(t *testing.T) {
	r := NewRepository()
	for i := 1; i <= 200; i++ {
		r.Seed(&domain.Product{ID: uint64(i), Title: "Phone", Price: decimal.NewFromInt(int64(i)), CategoryID: 1})
	}
	ctx := context.Background()
	byPrice := &domain.ProductOrder{Field: domain.OrderByPrice, Descending: true}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				page, err := r.FindByTitleAndCategoryPaged(ctx, "phone", []uint64{1}, byPrice,
					domain.PageRequest{PageNumber: 1, PageSize: 20})
				assert.NoError(t, err)
				for _, p := range page.Content {
					assert.False(t, p.Deleted)
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for id := uint64(1); id <= 200; id += 2 {
			assert.NoError(t, r.SoftDelete(ctx, id))
		}
	}()
	wg.Wait()

	count, err := r.CountByTitleContaining(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, int64(100), count)
}

func TestRepository_PagedResultsAreCopies(t *testing.T) {
	r := seeded()
	ctx := context.Background()

	page, err := r.FindByTitleAndCategoryPaged(ctx, "laptop", nil, nil, domain.PageRequest{PageNumber: 1, PageSize: 5})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	page.Content[0].Title = "mutated"

	got, _ := r.GetByID(ctx, 4)
	assert.Equal(t, "Laptop", got.Title)
}

func TestRepository_CreateResolvesCategory(t *testing.T) {
	r := seeded()
	ctx := context.Background()

	p := domain.NewProduct("Gaming Phone", decimal.NewFromInt(500), "phones")
	require.NoError(t, r.Create(ctx, p))
	assert.Equal(t, uint64(5), p.ID)
	assert.Equal(t, uint64(1), p.CategoryID)

	q := domain.NewProduct("Watch", decimal.NewFromInt(200), "wearables")
	require.NoError(t, r.Create(ctx, q))
	assert.Equal(t, uint64(4), q.CategoryID)
}

func TestRepository_SoftDelete(t *testing.T) {
	r := seeded()
	ctx := context.Background()

	require.NoError(t, r.SoftDelete(ctx, 1))

	got, err := r.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	count, err := r.CountByTitleContaining(ctx, "phone")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.ErrorIs(t, r.SoftDelete(ctx, 1), domain.ErrNotFound)
	assert.ErrorIs(t, r.SoftDelete(ctx, 99), domain.ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	r := seeded()
	ctx := context.Background()

	p, err := r.GetByID(ctx, 4)
	require.NoError(t, err)
	p.Title = "Ultrabook"
	require.NoError(t, r.Update(ctx, p))

	got, _ := r.GetByID(ctx, 4)
	assert.Equal(t, "Ultrabook", got.Title)

	assert.ErrorIs(t, r.Update(ctx, &domain.Product{ID: 77}), domain.ErrNotFound)
}

func TestRepository_CountByCategory(t *testing.T) {
	counts, err := seeded().CountByCategory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"phones": 2, "accessories": 1, "laptops": 1}, counts)
}

func TestRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := seeded().FindByTitleContaining(ctx, "phone")
	assert.ErrorIs(t, err, context.Canceled)
}
