package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"product-search-service/internal/domain"
)

// ProductService handles product CRUD with a read-through cache.
type ProductService struct {
	repo     domain.ProductRepository
	cache    domain.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewProductService creates a new ProductService. cache may be nil.
func NewProductService(repo domain.ProductRepository, cache domain.Cache, cacheTTL time.Duration, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func productKey(id uint64) string {
	return fmt.Sprintf("product:%d", id)
}

// storageErr passes taxonomy errors through and marks everything else as
// an upstream failure.
func storageErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidArgument) {
		return err
	}
	return domain.Unavailable(op, err)
}

// Get returns a product by id, consulting the cache first.
func (s *ProductService) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	if cached := s.fromCache(ctx, id); cached != nil {
		return cached, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("get product failed", zap.Uint64("id", id), zap.Error(err))
		return nil, storageErr("get product", err)
	}
	if p == nil {
		return nil, domain.NotFoundf("product %d", id)
	}

	s.toCache(ctx, p)

	return p, nil
}

// List returns one page of live products ordered by id.
func (s *ProductService) List(ctx context.Context, page domain.PageRequest) (*domain.Page[*domain.Product], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	result, err := s.repo.FindByTitleAndCategoryPaged(ctx, "", nil, nil, page)
	if err != nil {
		s.logger.Error("list products failed", zap.Error(err))
		return nil, storageErr("list products", err)
	}

	return result, nil
}

// Create validates and stores a new local product.
func (s *ProductService) Create(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Source == "" {
		p.Source = domain.SourceLocal
	}
	if p.ExternalID == "" {
		p.ExternalID = uuid.NewString()
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("create product failed", zap.String("title", p.Title), zap.Error(err))
		return storageErr("create product", err)
	}

	s.logger.Info("product created",
		zap.Uint64("id", p.ID),
		zap.String("category", p.CategoryName),
	)

	return nil
}

// Update applies patch to an existing product.
func (s *ProductService) Update(ctx context.Context, id uint64, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get product", err)
	}
	if p == nil {
		return nil, domain.NotFoundf("product %d", id)
	}

	patch.Apply(p)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("update product failed", zap.Uint64("id", id), zap.Error(err))
		return nil, storageErr("update product", err)
	}
	s.evict(ctx, id)

	return p, nil
}

// Replace overwrites every editable field of an existing product with p.
// The product keeps its id, origin and creation time.
func (s *ProductService) Replace(ctx context.Context, id uint64, p *domain.Product) (*domain.Product, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get product", err)
	}
	if existing == nil {
		return nil, domain.NotFoundf("product %d", id)
	}

	p.ID = id
	p.Source = existing.Source
	p.ExternalID = existing.ExternalID
	p.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("replace product failed", zap.Uint64("id", id), zap.Error(err))
		return nil, storageErr("replace product", err)
	}
	s.evict(ctx, id)

	s.logger.Info("product replaced", zap.Uint64("id", id))

	return p, nil
}

// Delete soft-deletes a product.
func (s *ProductService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return storageErr("delete product", err)
	}
	s.evict(ctx, id)

	s.logger.Info("product deleted", zap.Uint64("id", id))

	return nil
}

// CountByCategory returns live product counts per category name.
func (s *ProductService) CountByCategory(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, storageErr("count products", err)
	}
	return counts, nil
}

// Cache failures degrade to the repository and are only logged.

func (s *ProductService) fromCache(ctx context.Context, id uint64) *domain.Product {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, productKey(id))
	if err != nil || data == nil {
		return nil
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("discarding corrupt cache entry", zap.Uint64("id", id), zap.Error(err))
		return nil
	}

	return &p
}

func (s *ProductService) toCache(ctx context.Context, p *domain.Product) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, productKey(p.ID), data, s.cacheTTL)
}

func (s *ProductService) evict(ctx context.Context, id uint64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, productKey(id))
}
