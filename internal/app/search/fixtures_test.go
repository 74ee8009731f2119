package search

import (
	"github.com/shopspring/decimal"

	"product-search-service/internal/domain"
)

func product(id uint64, title, price, brand, ram, os string, categoryID uint64) *domain.Product {
	return &domain.Product{
		ID:         id,
		Source:     domain.SourceLocal,
		ExternalID: title,
		Title:      title,
		Price:      decimal.RequireFromString(price),
		Brand:      brand,
		RAM:        ram,
		OS:         os,
		CategoryID: categoryID,
	}
}

// catalog is a small mixed catalog: phones in category 1, laptops in 2.
func catalog() []*domain.Product {
	return []*domain.Product{
		product(1, "Apple iPhone 15", "999.00", "Apple", "8GB", "iOS", 1),
		product(2, "Samsung Galaxy S24", "899.00", "samsung", "16 GB", "Android", 1),
		product(3, "Samsung Galaxy Book", "1299.00", "Samsung", "16GB", "Windows", 2),
		product(4, "Apple MacBook Pro", "2499.00", "apple", "16gb", "macOS", 2),
		product(5, "Pixel 8 Phone", "699.00", "Google", "8GB", "Android", 1),
		product(6, "Budget Phone", "99.00", "", "4GB", "Android", 1),
		product(7, "Apple iPad Air", "599.00", " APPLE ", "8GB", "iPadOS", 3),
		product(8, "Rugged Phone", "699.00", "Ulefone", "16GB", "Android", 1),
	}
}

func ids(products []*domain.Product) []uint64 {
	out := make([]uint64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func sortPtr(c domain.SortCriterion) *domain.SortCriterion {
	return &c
}
