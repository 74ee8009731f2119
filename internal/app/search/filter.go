// Package search implements the filter/sort/paginate pipeline and the two
// engines that execute it.
package search

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"product-search-service/internal/domain"
)

// Filter keys accepted in a search request.
const (
	FilterBrand     = "brand"
	FilterOS        = "os"
	FilterRAM       = "ram"
	FilterCategory  = "category"
	FilterLowPrice  = "lowPrice"
	FilterHighPrice = "highPrice"
)

// Filter narrows a candidate set by one attribute. A product passes if it
// matches any of the values (OR); Apply is stable and never modifies its input.
type Filter interface {
	Key() string

	// Validate rejects values the filter cannot interpret.
	Validate(values []string) error

	// Apply returns the candidates that match any of values.
	Apply(candidates []*domain.Product, values []string) []*domain.Product
}

// registry is the closed set of known filters, resolved by key.
var registry = map[string]Filter{
	FilterBrand:     newAttributeFilter(FilterBrand, func(p *domain.Product) string { return p.Brand }, foldSpace),
	FilterOS:        newAttributeFilter(FilterOS, func(p *domain.Product) string { return p.OS }, foldSpace),
	FilterRAM:       newAttributeFilter(FilterRAM, func(p *domain.Product) string { return p.RAM }, foldAllSpace),
	FilterCategory:  categoryFilter{},
	FilterLowPrice:  priceBoundFilter{key: FilterLowPrice, lower: true},
	FilterHighPrice: priceBoundFilter{key: FilterHighPrice, lower: false},
}

// ResolveFilter returns the filter registered for key. Unknown keys are an
// InvalidArgument error, never a pass-through.
func ResolveFilter(key string) (Filter, error) {
	f, ok := registry[key]
	if !ok {
		return nil, domain.InvalidArgumentf("unknown filter key %q", key)
	}

	return f, nil
}

// FilterKeys returns the registered keys in sorted order.
func FilterKeys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// keep returns the candidates for which match is true, preserving order.
func keep(candidates []*domain.Product, match func(*domain.Product) bool) []*domain.Product {
	out := make([]*domain.Product, 0, len(candidates))
	for _, p := range candidates {
		if match(p) {
			out = append(out, p)
		}
	}

	return out
}

func requireValues(key string, values []string) error {
	if len(values) == 0 {
		return domain.InvalidArgumentf("filter %q needs at least one value", key)
	}

	return nil
}

// foldSpace trims and lower-cases a value.
func foldSpace(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// foldAllSpace lower-cases a value and drops all whitespace, so "16 GB"
// and "16gb" compare equal.
func foldAllSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// attributeFilter matches one string attribute exactly after normalization.
type attributeFilter struct {
	key       string
	get       func(*domain.Product) string
	normalize func(string) string
}

func newAttributeFilter(key string, get func(*domain.Product) string, normalize func(string) string) attributeFilter {
	return attributeFilter{key: key, get: get, normalize: normalize}
}

func (f attributeFilter) Key() string { return f.key }

func (f attributeFilter) Validate(values []string) error {
	return requireValues(f.key, values)
}

func (f attributeFilter) Apply(candidates []*domain.Product, values []string) []*domain.Product {
	accepted := make(map[string]struct{}, len(values))
	for _, v := range values {
		accepted[f.normalize(v)] = struct{}{}
	}

	return keep(candidates, func(p *domain.Product) bool {
		attr := f.get(p)
		if attr == "" {
			return false
		}
		_, ok := accepted[f.normalize(attr)]
		return ok
	})
}

// categoryFilter matches products by category id.
type categoryFilter struct{}

func (categoryFilter) Key() string { return FilterCategory }

func (categoryFilter) Validate(values []string) error {
	_, err := ParseCategoryIDs(values)
	return err
}

func (categoryFilter) Apply(candidates []*domain.Product, values []string) []*domain.Product {
	ids, err := ParseCategoryIDs(values)
	if err != nil {
		return []*domain.Product{}
	}
	accepted := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		accepted[id] = struct{}{}
	}

	return keep(candidates, func(p *domain.Product) bool {
		_, ok := accepted[p.CategoryID]
		return ok
	})
}

// ParseCategoryIDs parses category filter values as positive integers.
func ParseCategoryIDs(values []string) ([]uint64, error) {
	if err := requireValues(FilterCategory, values); err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil || id == 0 {
			return nil, domain.InvalidArgumentf("filter %q: %q is not a category id", FilterCategory, v)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// priceBoundFilter keeps products priced at or above (lower) or at or below
// (!lower) any of the given bounds.
type priceBoundFilter struct {
	key   string
	lower bool
}

func (f priceBoundFilter) Key() string { return f.key }

func (f priceBoundFilter) Validate(values []string) error {
	_, err := f.bound(values)
	return err
}

// bound collapses the OR over values: the loosest bound wins.
func (f priceBoundFilter) bound(values []string) (decimal.Decimal, error) {
	if err := requireValues(f.key, values); err != nil {
		return decimal.Zero, err
	}

	var result decimal.Decimal
	for i, v := range values {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil || d.IsNegative() {
			return decimal.Zero, domain.InvalidArgumentf("filter %q: %q is not a valid price", f.key, v)
		}
		if i == 0 || (f.lower && d.LessThan(result)) || (!f.lower && d.GreaterThan(result)) {
			result = d
		}
	}

	return result, nil
}

func (f priceBoundFilter) Apply(candidates []*domain.Product, values []string) []*domain.Product {
	b, err := f.bound(values)
	if err != nil {
		return []*domain.Product{}
	}

	return keep(candidates, func(p *domain.Product) bool {
		if f.lower {
			return p.Price.GreaterThanOrEqual(b)
		}
		return p.Price.LessThanOrEqual(b)
	})
}
