package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"product-search-service/internal/domain"
	"product-search-service/internal/infra/memory"
)

// spyRepo records which read path the engines used.
type spyRepo struct {
	*memory.Repository
	materialized atomic.Int32
	paged        atomic.Int32
}

func (r *spyRepo) FindByTitleContaining(ctx context.Context, query string) ([]*domain.Product, error) {
	r.materialized.Add(1)
	return r.Repository.FindByTitleContaining(ctx, query)
}

func (r *spyRepo) FindByTitleAndCategoryPaged(
	ctx context.Context, query string, categoryIDs []uint64, order *domain.ProductOrder, page domain.PageRequest,
) (*domain.Page[*domain.Product], error) {
	r.paged.Add(1)
	return r.Repository.FindByTitleAndCategoryPaged(ctx, query, categoryIDs, order, page)
}

func testProducts() []*domain.Product {
	mk := func(id uint64, title, price, brand string, category uint64) *domain.Product {
		return &domain.Product{
			ID:           id,
			Source:       domain.SourceLocal,
			ExternalID:   title,
			Title:        title,
			Price:        decimal.RequireFromString(price),
			Brand:        brand,
			CategoryID:   category,
			CategoryName: map[uint64]string{1: "phones", 2: "laptops"}[category],
		}
	}

	return []*domain.Product{
		mk(1, "iPhone 15", "999", "apple", 1),
		mk(2, "Galaxy Phone", "899", "samsung", 1),
		mk(3, "MacBook Air", "1199", "apple", 2),
		mk(4, "Budget Phone", "99", "acme", 1),
	}
}

func newSpy() *spyRepo {
	repo := memory.NewRepository()
	repo.Seed(testProducts()...)
	return &spyRepo{Repository: repo}
}

func firstPage(size int) domain.PageRequest {
	return domain.PageRequest{PageNumber: 1, PageSize: size}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{
		"":           StrategyAuto,
		"auto":       StrategyAuto,
		"IN_PROCESS": StrategyInProcess,
		" storage ":  StrategyStorage,
	} {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStrategy("magic")
	assert.Error(t, err)
}

func TestSearchService_StrategySelection(t *testing.T) {
	categoryOnly := domain.SearchRequest{
		Filters: []domain.FilterSpec{{Key: "category", Values: []string{"1"}}},
		Page:    firstPage(10),
	}
	withBrand := domain.SearchRequest{
		Filters: []domain.FilterSpec{{Key: "brand", Values: []string{"apple"}}},
		Page:    firstPage(10),
	}

	tests := []struct {
		name             string
		strategy         Strategy
		req              domain.SearchRequest
		wantMaterialized int32
		wantPaged        int32
	}{
		{"auto pushes category", StrategyAuto, categoryOnly, 0, 1},
		{"auto falls back for brand", StrategyAuto, withBrand, 1, 0},
		{"in_process always materializes", StrategyInProcess, categoryOnly, 1, 0},
		{"storage falls back for brand", StrategyStorage, withBrand, 1, 0},
		{"storage pushes category", StrategyStorage, categoryOnly, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newSpy()
			svc := NewSearchService(repo, SearchOptions{Strategy: tt.strategy}, zap.NewNop())

			_, err := svc.Search(context.Background(), tt.req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantMaterialized, repo.materialized.Load())
			assert.Equal(t, tt.wantPaged, repo.paged.Load())
		})
	}
}

func TestSearchService_InvalidRequestNeverTouchesStorage(t *testing.T) {
	repo := newSpy()
	svc := NewSearchService(repo, SearchOptions{}, zap.NewNop())

	_, err := svc.Search(context.Background(), domain.SearchRequest{
		Query:   "nothing matches this",
		Filters: []domain.FilterSpec{{Key: "color", Values: []string{"red"}}},
		Page:    firstPage(10),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Zero(t, repo.materialized.Load())
	assert.Zero(t, repo.paged.Load())
}

// blockingRepo never answers before the context ends.
type blockingRepo struct {
	*memory.Repository
}

func (blockingRepo) FindByTitleContaining(ctx context.Context, _ string) ([]*domain.Product, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestSearchService_FetchTimeout(t *testing.T) {
	svc := NewSearchService(
		blockingRepo{Repository: memory.NewRepository()},
		SearchOptions{Strategy: StrategyInProcess, FetchTimeout: 20 * time.Millisecond},
		zap.NewNop(),
	)

	_, err := svc.Search(context.Background(), domain.SearchRequest{Page: firstPage(10)})

	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSearchService_SimpleSearch(t *testing.T) {
	svc := NewSearchService(newSpy(), SearchOptions{}, zap.NewNop())

	page, err := svc.SimpleSearch(context.Background(), SimpleSearchRequest{
		Query:            "phone",
		CategoryID:       1,
		SortingAttribute: "price",
		Page:             firstPage(2),
	})
	require.NoError(t, err)

	assert.Len(t, page.Content, 2)
	assert.Equal(t, uint64(1), page.Content[0].ID)
	assert.Equal(t, uint64(2), page.Content[1].ID)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.True(t, page.HasNext)
}

func TestSearchService_SimpleSearchErrors(t *testing.T) {
	svc := NewSearchService(newSpy(), SearchOptions{}, zap.NewNop())

	_, err := svc.SimpleSearch(context.Background(), SimpleSearchRequest{Page: firstPage(2)})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.SimpleSearch(context.Background(), SimpleSearchRequest{
		CategoryID:       1,
		SortingAttribute: "rating",
		Page:             firstPage(2),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.SimpleSearch(context.Background(), SimpleSearchRequest{
		Query:      "tablet",
		CategoryID: 1,
		Page:       firstPage(2),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
