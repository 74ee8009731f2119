package search

import (
	"slices"

	"product-search-service/internal/domain"
)

// Sorter reorders a candidate set. Implementations are stable and return a
// new slice.
type Sorter interface {
	Sort(candidates []*domain.Product) []*domain.Product

	// Order is the equivalent storage ordering, nil for identity.
	Order() *domain.ProductOrder
}

// sorters maps each criterion to its strategy. RELEVANCE, POPULARITY and the
// RATING criteria have no ranking signal in the product model and are
// deliberately identity.
var sorters = map[domain.SortCriterion]Sorter{
	domain.SortRelevance:       identitySorter{},
	domain.SortPopularity:      identitySorter{},
	domain.SortPriceLowToHigh:  priceSorter{descending: false},
	domain.SortPriceHighToLow:  priceSorter{descending: true},
	domain.SortRatingLowToHigh: identitySorter{},
	domain.SortRatingHighToLow: identitySorter{},
}

// ResolveSorter returns the sorter for c. A nil criterion is identity.
func ResolveSorter(c *domain.SortCriterion) (Sorter, error) {
	if c == nil {
		return identitySorter{}, nil
	}
	s, ok := sorters[*c]
	if !ok {
		return nil, domain.InvalidArgumentf("unknown sorting criterion %q", *c)
	}

	return s, nil
}

// identitySorter leaves the order unchanged.
type identitySorter struct{}

func (identitySorter) Sort(candidates []*domain.Product) []*domain.Product {
	return slices.Clone(candidates)
}

func (identitySorter) Order() *domain.ProductOrder { return nil }

// priceSorter orders by price; ties keep their input order.
type priceSorter struct {
	descending bool
}

func (s priceSorter) Sort(candidates []*domain.Product) []*domain.Product {
	out := slices.Clone(candidates)
	slices.SortStableFunc(out, func(a, b *domain.Product) int {
		if s.descending {
			return b.Price.Cmp(a.Price)
		}
		return a.Price.Cmp(b.Price)
	})

	return out
}

func (s priceSorter) Order() *domain.ProductOrder {
	return &domain.ProductOrder{Field: domain.OrderByPrice, Descending: s.descending}
}
