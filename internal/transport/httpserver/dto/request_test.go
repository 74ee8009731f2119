package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-search-service/internal/app/service"
	"product-search-service/internal/domain"
	"product-search-service/internal/validator"
)

var testPaging = Paging{DefaultPageSize: 20, MaxPageSize: 100}

// TestSearchRequest_Validation_Valid tests valid search bodies.
func TestSearchRequest_Validation_Valid(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name string
		req  SearchRequest
	}{
		{name: "empty body", req: SearchRequest{}},
		{name: "query only", req: SearchRequest{Query: "phone"}},
		{
			name: "full body",
			req: SearchRequest{
				Query:           "P",
				Filters:         []FilterRequest{{Key: "brand", Values: []string{"Samsung", "Apple"}}},
				SortingCriteria: "PRICE_LOW_TO_HIGH",
				PageNumber:      2,
				PageSize:        10,
			},
		},
		{name: "identity criterion", req: SearchRequest{SortingCriteria: "RATING_HIGH_TO_LOW"}},
		{name: "query at max length", req: SearchRequest{Query: string(make([]byte, 200))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, v.Validate(&tt.req))
		})
	}
}

// TestSearchRequest_Validation_Invalid tests invalid search bodies.
func TestSearchRequest_Validation_Invalid(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name         string
		req          SearchRequest
		expectField  string
		expectTag    string
		expectErrMsg string
	}{
		{
			name:         "query too long",
			req:          SearchRequest{Query: string(make([]byte, 201))},
			expectField:  "query",
			expectTag:    "max",
			expectErrMsg: "must be at most 200",
		},
		{
			name:         "unknown criterion",
			req:          SearchRequest{SortingCriteria: "NEWEST"},
			expectField:  "sortingCriteria",
			expectTag:    validator.TagSortCriterion,
			expectErrMsg: "must be one of: RELEVANCE",
		},
		{
			name:         "filter without values",
			req:          SearchRequest{Filters: []FilterRequest{{Key: "brand"}}},
			expectField:  "values",
			expectTag:    "required",
			expectErrMsg: "is required",
		},
		{
			name:         "filter without key",
			req:          SearchRequest{Filters: []FilterRequest{{Values: []string{"x"}}}},
			expectField:  "key",
			expectTag:    "required",
			expectErrMsg: "is required",
		},
		{
			name:         "negative page",
			req:          SearchRequest{PageNumber: -1},
			expectField:  "pageNumber",
			expectTag:    "min",
			expectErrMsg: "must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			require.Error(t, err)

			var validationErrs validator.ValidationErrors
			require.True(t, errors.As(err, &validationErrs), "expected ValidationErrors type")

			found := false
			for _, ve := range validationErrs {
				if ve.Field == tt.expectField {
					found = true
					assert.Equal(t, tt.expectTag, ve.Tag)
					assert.Contains(t, ve.Message, tt.expectErrMsg)
				}
			}
			assert.True(t, found, "expected error for field %s", tt.expectField)
		})
	}
}

func TestSearchRequest_ToDomain(t *testing.T) {
	tests := []struct {
		name     string
		req      SearchRequest
		expected domain.SearchRequest
	}{
		{
			name:     "defaults",
			req:      SearchRequest{},
			expected: domain.SearchRequest{Page: domain.PageRequest{PageNumber: 1, PageSize: 20}},
		},
		{
			name: "full body",
			req: SearchRequest{
				Query:           "P",
				Filters:         []FilterRequest{{Key: "ram", Values: []string{"16 GB"}}},
				SortingCriteria: "PRICE_HIGH_TO_LOW",
				PageNumber:      3,
				PageSize:        5,
			},
			expected: domain.SearchRequest{
				Query:   "P",
				Filters: []domain.FilterSpec{{Key: "ram", Values: []string{"16 GB"}}},
				Sort:    ptr(domain.SortPriceHighToLow),
				Page:    domain.PageRequest{PageNumber: 3, PageSize: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.ToDomain(testPaging)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSearchRequest_ToDomain_PageSizeCap(t *testing.T) {
	req := SearchRequest{PageSize: 101}

	_, err := req.ToDomain(testPaging)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestSimpleSearchRequest_ToService(t *testing.T) {
	req := SimpleSearchRequest{Query: "P", Category: 7, SortingAttribute: "price", PageNumber: 2}

	got, err := req.ToService(testPaging)
	require.NoError(t, err)
	assert.Equal(t, service.SimpleSearchRequest{
		Query:            "P",
		CategoryID:       7,
		SortingAttribute: "price",
		Page:             domain.PageRequest{PageNumber: 2, PageSize: 20},
	}, got)
}

func TestSimpleSearchRequest_Validation(t *testing.T) {
	v := validator.New()

	assert.Error(t, v.Validate(&SimpleSearchRequest{Query: "P"}), "category is required")
	assert.NoError(t, v.Validate(&SimpleSearchRequest{Category: 1}))
}

func TestCreateProductRequest(t *testing.T) {
	v := validator.New()

	valid := CreateProductRequest{
		Title:    "Galaxy S23",
		Price:    decimal.RequireFromString("799.99"),
		Category: "phones",
		Brand:    "Samsung",
		RAM:      "8 GB",
		OS:       "Android",
	}
	require.NoError(t, v.Validate(&valid))

	p := valid.ToDomain()
	assert.Equal(t, domain.SourceLocal, p.Source)
	assert.Equal(t, "phones", p.CategoryName)
	assert.Equal(t, "8 GB", p.RAM)
	assert.WithinDuration(t, time.Now(), p.CreatedAt, time.Minute)

	negative := valid
	negative.Price = decimal.RequireFromString("-1")
	assert.Error(t, v.Validate(&negative))

	untitled := valid
	untitled.Title = ""
	assert.Error(t, v.Validate(&untitled))
}

func TestUpdateProductRequest_ToPatch(t *testing.T) {
	price := decimal.RequireFromString("10")
	req := UpdateProductRequest{Price: &price, Brand: ptr("Apple")}

	require.NoError(t, validator.New().Validate(&req))

	p := &domain.Product{Title: "Phone", Brand: "Samsung"}
	req.ToPatch().Apply(p)

	assert.Equal(t, "Phone", p.Title)
	assert.Equal(t, "Apple", p.Brand)
	assert.True(t, p.Price.Equal(price))
}

func TestFromSyncResults(t *testing.T) {
	resp := FromSyncResults([]service.SyncResult{
		{Provider: "fakestore", Count: 20, Duration: time.Second},
		{Provider: "backup", Error: errors.New("timeout")},
	})

	assert.Equal(t, SyncSummary{TotalSynced: 20, ProvidersOK: 1, ProvidersFail: 1}, resp.Summary)
	assert.Equal(t, "timeout", resp.Results[1].Error)
}

func ptr[T any](v T) *T { return &v }

// TestListProductsRequest_ToDomain tests paging defaults and the size cap.
func TestListProductsRequest_ToDomain(t *testing.T) {
	tests := []struct {
		name    string
		req     ListProductsRequest
		want    domain.PageRequest
		wantErr bool
	}{
		{name: "defaults", req: ListProductsRequest{}, want: domain.PageRequest{PageNumber: 1, PageSize: 20}},
		{name: "explicit", req: ListProductsRequest{PageNumber: 3, PageSize: 5}, want: domain.PageRequest{PageNumber: 3, PageSize: 5}},
		{name: "at cap", req: ListProductsRequest{PageSize: 100}, want: domain.PageRequest{PageNumber: 1, PageSize: 100}},
		{name: "above cap", req: ListProductsRequest{PageSize: 101}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.ToDomain(testPaging)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
