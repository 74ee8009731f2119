package fakestore

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"product-search-service/internal/domain"
)

// Item is one product as served by a FakeStore-compatible API.
// Brand, RAM and OS are extensions some catalogs add.
type Item struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`

	Brand string `json:"brand,omitempty"`
	RAM   string `json:"ram,omitempty"`
	OS    string `json:"os,omitempty"`
}

// Rating is decoded but not stored: rating and popularity criteria sort
// as identity.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// ToDomain converts an Item to a product owned by source.
func (i *Item) ToDomain(source string) *domain.Product {
	return &domain.Product{
		Source:       source,
		ExternalID:   strconv.FormatInt(i.ID, 10),
		Title:        strings.TrimSpace(i.Title),
		Description:  i.Description,
		Price:        i.Price.Round(2),
		ImageURL:     i.Image,
		CategoryName: strings.TrimSpace(i.Category),
		Brand:        i.Brand,
		RAM:          i.RAM,
		OS:           i.OS,
	}
}
