// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"github.com/shopspring/decimal"

	"product-search-service/internal/app/service"
	"product-search-service/internal/domain"
)

// Paging holds the page size bounds applied to every search request.
type Paging struct {
	DefaultPageSize int
	MaxPageSize     int
}

// pageRequest fills in defaults and enforces the size cap. Page numbers are
// 1-based; zero means "first page".
func (p Paging) pageRequest(number, size int) (domain.PageRequest, error) {
	if number == 0 {
		number = 1
	}
	if size == 0 {
		size = p.DefaultPageSize
	}
	if p.MaxPageSize > 0 && size > p.MaxPageSize {
		return domain.PageRequest{}, domain.InvalidArgumentf("page size must be at most %d, got %d", p.MaxPageSize, size)
	}

	return domain.PageRequest{PageNumber: number, PageSize: size}, nil
}

// FilterRequest is one attribute filter in a search body.
type FilterRequest struct {
	Key    string   `json:"key" validate:"required"`
	Values []string `json:"values" validate:"required,min=1,dive,required"`
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query           string          `json:"query" validate:"max=200"`
	Filters         []FilterRequest `json:"filters" validate:"omitempty,dive"`
	SortingCriteria string          `json:"sortingCriteria" validate:"omitempty,sort_criterion"`
	PageNumber      int             `json:"pageNumber" validate:"omitempty,min=1"`
	PageSize        int             `json:"pageSize" validate:"omitempty,min=1"`
}

// ToDomain converts the body into a domain.SearchRequest. Filter keys are
// resolved later by the search engine.
func (r *SearchRequest) ToDomain(paging Paging) (domain.SearchRequest, error) {
	page, err := paging.pageRequest(r.PageNumber, r.PageSize)
	if err != nil {
		return domain.SearchRequest{}, err
	}

	req := domain.SearchRequest{
		Query: r.Query,
		Page:  page,
	}

	criterion, ok, err := domain.ParseSortCriterion(r.SortingCriteria)
	if err != nil {
		return domain.SearchRequest{}, err
	}
	if ok {
		req.Sort = &criterion
	}

	for _, f := range r.Filters {
		req.Filters = append(req.Filters, domain.FilterSpec{Key: f.Key, Values: f.Values})
	}

	return req, nil
}

// SimpleSearchRequest holds the query parameters of
// GET /api/v1/search/by-category.
type SimpleSearchRequest struct {
	Query            string `query:"query" validate:"max=200"`
	Category         uint64 `query:"category" validate:"required"`
	SortingAttribute string `query:"sortingAttribute" validate:"omitempty,max=50"`
	PageNumber       int    `query:"pageNumber" validate:"omitempty,min=1"`
	PageSize         int    `query:"pageSize" validate:"omitempty,min=1"`
}

// ToService converts the query parameters into a service request.
func (r *SimpleSearchRequest) ToService(paging Paging) (service.SimpleSearchRequest, error) {
	page, err := paging.pageRequest(r.PageNumber, r.PageSize)
	if err != nil {
		return service.SimpleSearchRequest{}, err
	}

	return service.SimpleSearchRequest{
		Query:            r.Query,
		CategoryID:       r.Category,
		SortingAttribute: r.SortingAttribute,
		Page:             page,
	}, nil
}

// ListProductsRequest holds the query parameters of GET /api/v1/products.
type ListProductsRequest struct {
	PageNumber int `query:"pageNumber" validate:"omitempty,min=1"`
	PageSize   int `query:"pageSize" validate:"omitempty,min=1"`
}

// ToDomain applies the paging defaults and cap.
func (r *ListProductsRequest) ToDomain(paging Paging) (domain.PageRequest, error) {
	return paging.pageRequest(r.PageNumber, r.PageSize)
}

// CreateProductRequest is the body of POST /api/v1/products and of
// PUT /api/v1/products/:id, which replaces every field.
type CreateProductRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price" validate:"nonnegative"`
	ImageURL    string          `json:"imageUrl" validate:"omitempty,url"`
	Category    string          `json:"category" validate:"max=100"`
	Brand       string          `json:"brand" validate:"max=100"`
	RAM         string          `json:"ram" validate:"max=50"`
	OS          string          `json:"os" validate:"max=100"`
}

// ToDomain builds a new local product.
func (r *CreateProductRequest) ToDomain() *domain.Product {
	p := domain.NewProduct(r.Title, r.Price, r.Category)
	p.Description = r.Description
	p.ImageURL = r.ImageURL
	p.Brand = r.Brand
	p.RAM = r.RAM
	p.OS = r.OS

	return p
}

// UpdateProductRequest is the body of PATCH /api/v1/products/:id.
// Omitted fields are left unchanged.
type UpdateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,nonnegative"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,url"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Brand       *string          `json:"brand" validate:"omitempty,max=100"`
	RAM         *string          `json:"ram" validate:"omitempty,max=50"`
	OS          *string          `json:"os" validate:"omitempty,max=100"`
}

// ToPatch converts the body into a domain.ProductPatch.
func (r *UpdateProductRequest) ToPatch() domain.ProductPatch {
	return domain.ProductPatch{
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		ImageURL:     r.ImageURL,
		CategoryName: r.Category,
		Brand:        r.Brand,
		RAM:          r.RAM,
		OS:           r.OS,
	}
}
