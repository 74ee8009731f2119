// Package domain contains the core entities, search types and ports.
// Apart from shopspring/decimal for money it depends only on the stdlib.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceLocal marks products created through this service's own API.
const SourceLocal = "local"

// Category groups products. Names are unique.
type Category struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Product is the catalog entity the search engine reads.
type Product struct {
	ID uint64 `json:"id"`

	// Origin of the record; (Source, ExternalID) is unique.
	Source     string `json:"source"`
	ExternalID string `json:"external_id"`

	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`

	CategoryID   uint64 `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`

	// Filterable attributes
	Brand string `json:"brand,omitempty"`
	RAM   string `json:"ram,omitempty"`
	OS    string `json:"os,omitempty"`

	Deleted bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProduct creates a local product with timestamps set.
func NewProduct(title string, price decimal.Decimal, categoryName string) *Product {
	now := time.Now().UTC()
	return &Product{
		Source:       SourceLocal,
		Title:        title,
		Price:        price,
		CategoryName: categoryName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks the invariants every stored product must hold.
func (p *Product) Validate() error {
	if p.Title == "" {
		return InvalidArgumentf("product title is required")
	}
	if p.Price.IsNegative() {
		return InvalidArgumentf("product price must not be negative, got %s", p.Price.String())
	}

	return nil
}

// ProductPatch carries the optional fields of a partial update.
// Nil fields are left unchanged.
type ProductPatch struct {
	Title        *string
	Description  *string
	Price        *decimal.Decimal
	ImageURL     *string
	CategoryName *string
	Brand        *string
	RAM          *string
	OS           *string
}

// Apply copies the set fields of the patch onto p.
func (pp ProductPatch) Apply(p *Product) {
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Price != nil {
		p.Price = *pp.Price
	}
	if pp.ImageURL != nil {
		p.ImageURL = *pp.ImageURL
	}
	if pp.CategoryName != nil {
		p.CategoryName = *pp.CategoryName
	}
	if pp.Brand != nil {
		p.Brand = *pp.Brand
	}
	if pp.RAM != nil {
		p.RAM = *pp.RAM
	}
	if pp.OS != nil {
		p.OS = *pp.OS
	}
}
