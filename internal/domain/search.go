package domain

// SortCriterion is the closed set of orderings a search request may ask for.
// Wire names follow the public API.
type SortCriterion string

const (
	SortRelevance       SortCriterion = "RELEVANCE"
	SortPopularity      SortCriterion = "POPULARITY"
	SortPriceLowToHigh  SortCriterion = "PRICE_LOW_TO_HIGH"
	SortPriceHighToLow  SortCriterion = "PRICE_HIGH_TO_LOW"
	SortRatingLowToHigh SortCriterion = "RATING_LOW_TO_HIGH"
	SortRatingHighToLow SortCriterion = "RATING_HIGH_TO_LOW"
)

// SortCriteria lists every valid criterion.
func SortCriteria() []SortCriterion {
	return []SortCriterion{
		SortRelevance,
		SortPopularity,
		SortPriceLowToHigh,
		SortPriceHighToLow,
		SortRatingLowToHigh,
		SortRatingHighToLow,
	}
}

// ParseSortCriterion validates s. The empty string means "no sorting" and
// yields ok=false with a nil error.
func ParseSortCriterion(s string) (c SortCriterion, ok bool, err error) {
	if s == "" {
		return "", false, nil
	}
	for _, known := range SortCriteria() {
		if string(known) == s {
			return known, true, nil
		}
	}

	return "", false, InvalidArgumentf("unknown sorting criterion %q", s)
}

// OrderField is a product column storage can order by.
type OrderField string

const (
	OrderByID    OrderField = "id"
	OrderByPrice OrderField = "price"
)

// ProductOrder is a storage-level ordering. Ties are always broken by
// ascending id so that every search path yields the same sequence.
type ProductOrder struct {
	Field      OrderField
	Descending bool
}

// FilterSpec is one attribute filter: OR across Values, AND across specs.
type FilterSpec struct {
	Key    string
	Values []string
}

// SearchRequest is the input of one search call.
type SearchRequest struct {
	Query   string
	Filters []FilterSpec
	Sort    *SortCriterion
	Page    PageRequest
}
