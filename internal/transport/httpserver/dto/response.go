package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"product-search-service/internal/app/service"
	"product-search-service/internal/domain"
)

// CategoryResponse is the embedded category of a product.
type CategoryResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ProductResponse represents a single product in the response.
type ProductResponse struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	ImageURL    string            `json:"imageUrl,omitempty"`
	Category    *CategoryResponse `json:"category,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	RAM         string            `json:"ram,omitempty"`
	OS          string            `json:"os,omitempty"`
	Source      string            `json:"source"`
	ExternalID  string            `json:"externalId"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// FromDomainProduct converts domain.Product to ProductResponse.
func FromDomainProduct(p *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Brand:       p.Brand,
		RAM:         p.RAM,
		OS:          p.OS,
		Source:      p.Source,
		ExternalID:  p.ExternalID,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
	if p.CategoryID != 0 {
		resp.Category = &CategoryResponse{ID: p.CategoryID, Name: p.CategoryName}
	}

	return resp
}

// SearchResponse wraps one page of products.
type SearchResponse struct {
	ProductsPage *domain.Page[ProductResponse] `json:"productsPage"`
}

// FromProductPage converts a page of domain products to SearchResponse.
func FromProductPage(page *domain.Page[*domain.Product]) SearchResponse {
	return SearchResponse{ProductsPage: domain.MapPage(page, FromDomainProduct)}
}

// SyncResultResponse represents the response for a sync operation.
type SyncResultResponse struct {
	Provider string `json:"provider"`
	Count    int    `json:"count"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// FromSyncResult converts one service.SyncResult.
func FromSyncResult(r service.SyncResult) SyncResultResponse {
	resp := SyncResultResponse{
		Provider: r.Provider,
		Count:    r.Count,
		Duration: r.Duration.String(),
	}
	if r.Error != nil {
		resp.Error = r.Error.Error()
	}

	return resp
}

// SyncResponse represents the response for sync all operation.
type SyncResponse struct {
	Results []SyncResultResponse `json:"results"`
	Summary SyncSummary          `json:"summary"`
}

// SyncSummary holds summary of sync operation.
type SyncSummary struct {
	TotalSynced   int `json:"totalSynced"`
	ProvidersOK   int `json:"providersOk"`
	ProvidersFail int `json:"providersFail"`
}

// FromSyncResults converts service.SyncResult slice to SyncResponse.
func FromSyncResults(results []service.SyncResult) SyncResponse {
	resp := SyncResponse{
		Results: make([]SyncResultResponse, len(results)),
	}

	for i, r := range results {
		if r.Error != nil {
			resp.Summary.ProvidersFail++
		} else {
			resp.Summary.TotalSynced += r.Count
			resp.Summary.ProvidersOK++
		}
		resp.Results[i] = FromSyncResult(r)
	}

	return resp
}

// ProviderStatus is the health of one catalog provider.
type ProviderStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// ProvidersResponse lists catalog providers in registration order.
type ProvidersResponse struct {
	Providers []ProviderStatus `json:"providers"`
}

// FromProviderHealth builds a ProvidersResponse ordered by names.
func FromProviderHealth(names []string, health map[string]error) ProvidersResponse {
	resp := ProvidersResponse{Providers: make([]ProviderStatus, 0, len(names))}
	for _, name := range names {
		status := ProviderStatus{Name: name, Healthy: health[name] == nil}
		if err := health[name]; err != nil {
			status.Error = err.Error()
		}
		resp.Providers = append(resp.Providers, status)
	}

	return resp
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
