package domain

import (
	"math"
	"slices"
)

// PageRequest selects one page. PageNumber is 1-based.
type PageRequest struct {
	PageNumber int
	PageSize   int
}

// Validate rejects page numbers or sizes below 1.
func (r PageRequest) Validate() error {
	if r.PageNumber < 1 {
		return InvalidArgumentf("page number must be at least 1, got %d", r.PageNumber)
	}
	if r.PageSize < 1 {
		return InvalidArgumentf("page size must be at least 1, got %d", r.PageSize)
	}

	return nil
}

// Offset is the 0-based index of the first element of the page. It
// saturates at math.MaxInt64 instead of overflowing, so a huge page number
// always lands past the end of any sequence.
func (r PageRequest) Offset() int64 {
	if r.PageNumber < 1 || r.PageSize < 1 {
		return 0
	}
	pages, size := int64(r.PageNumber-1), int64(r.PageSize)
	if pages > math.MaxInt64/size {
		return math.MaxInt64
	}

	return pages * size
}

// Limit returns the page size.
func (r PageRequest) Limit() int {
	return r.PageSize
}

// Page is one slice of an ordered result set plus pagination metadata.
// It is built once and never mutated.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// NewPage builds a Page around content that has already been sliced,
// e.g. by a LIMIT/OFFSET query. total is the size of the full sequence.
func NewPage[T any](content []T, total int64, req PageRequest) *Page[T] {
	totalPages := total / int64(req.PageSize)
	if total%int64(req.PageSize) > 0 {
		totalPages++
	}
	if content == nil {
		content = []T{}
	}

	return &Page[T]{
		Content:       content,
		PageNumber:    req.PageNumber,
		PageSize:      req.PageSize,
		TotalPages:    int(totalPages),
		TotalElements: total,
		HasNext:       int64(req.PageNumber) < totalPages,
		HasPrevious:   req.PageNumber > 1,
	}
}

// Paginate slices items into the requested page. Offsets past the end
// yield an empty page with correct metadata.
func Paginate[T any](items []T, req PageRequest) (*Page[T], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total := int64(len(items))
	start := req.Offset()
	if start > total {
		start = total
	}
	end := total
	if int64(req.PageSize) < total-start {
		end = start + int64(req.PageSize)
	}

	return NewPage(slices.Clone(items[start:end]), total, req), nil
}

// MapPage converts the content of a page, keeping its metadata.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	content := make([]U, len(p.Content))
	for i, item := range p.Content {
		content[i] = fn(item)
	}

	return &Page[U]{
		Content:       content,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
		HasNext:       p.HasNext,
		HasPrevious:   p.HasPrevious,
	}
}
