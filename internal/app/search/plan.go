package search

import (
	"product-search-service/internal/domain"
)

// BoundFilter is a resolved filter together with its validated values.
type BoundFilter struct {
	Filter Filter
	Values []string
}

// Plan is a fully validated search request. Building one resolves every
// filter key, filter value, sort criterion and page bound, so execution
// cannot fail on malformed input.
type Plan struct {
	Query   string
	Filters []BoundFilter
	Sorter  Sorter
	Page    domain.PageRequest
}

// Compile validates req and resolves its strategies. Errors wrap
// domain.ErrInvalidArgument.
func Compile(req domain.SearchRequest) (*Plan, error) {
	if err := req.Page.Validate(); err != nil {
		return nil, err
	}

	filters := make([]BoundFilter, 0, len(req.Filters))
	for _, fspec := range req.Filters {
		f, err := ResolveFilter(fspec.Key)
		if err != nil {
			return nil, err
		}
		if err := f.Validate(fspec.Values); err != nil {
			return nil, err
		}
		filters = append(filters, BoundFilter{Filter: f, Values: fspec.Values})
	}

	sorter, err := ResolveSorter(req.Sort)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Query:   req.Query,
		Filters: filters,
		Sorter:  sorter,
		Page:    req.Page,
	}, nil
}

// Refine applies every filter in order, then the sorter. The input is
// never modified.
func (p *Plan) Refine(candidates []*domain.Product) []*domain.Product {
	out := candidates
	for _, bf := range p.Filters {
		out = bf.Filter.Apply(out, bf.Values)
	}

	return p.Sorter.Sort(out)
}

// CategoryIDs intersects the values of every category filter. It returns
// nil when the plan has no category filter and an empty slice when the
// intersection is empty.
func (p *Plan) CategoryIDs() []uint64 {
	var ids []uint64
	seen := false

	for _, bf := range p.Filters {
		if bf.Filter.Key() != FilterCategory {
			continue
		}
		parsed, err := ParseCategoryIDs(bf.Values)
		if err != nil {
			return []uint64{}
		}
		if !seen {
			ids = dedupe(parsed)
			seen = true
			continue
		}
		ids = intersect(ids, parsed)
	}

	return ids
}

func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

func intersect(a, b []uint64) []uint64 {
	inB := make(map[uint64]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}

	out := make([]uint64, 0, len(a))
	for _, id := range a {
		if _, ok := inB[id]; ok {
			out = append(out, id)
		}
	}

	return out
}
