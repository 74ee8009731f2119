package handler

import (
	"cmp"
	"slices"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-search-service/internal/app/search"
	"product-search-service/internal/app/service"
	"product-search-service/internal/domain"
)

// DashboardHandler renders the HTML stats page.
type DashboardHandler struct {
	products *service.ProductService
	sync     *service.SyncService
	logger   *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(products *service.ProductService, sync *service.SyncService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		products: products,
		sync:     sync,
		logger:   logger,
	}
}

type categoryCount struct {
	Name  string
	Count int64
}

// Render handles GET /dashboard
func (h *DashboardHandler) Render(c *fiber.Ctx) error {
	counts, err := h.products.CountByCategory(c.UserContext())
	if err != nil {
		h.logger.Warn("dashboard stats unavailable", zap.Error(err))
	}

	var total int64
	categories := make([]categoryCount, 0, len(counts))
	for name, n := range counts {
		categories = append(categories, categoryCount{Name: name, Count: n})
		total += n
	}
	slices.SortFunc(categories, func(a, b categoryCount) int {
		if n := cmp.Compare(b.Count, a.Count); n != 0 {
			return n
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return c.Render("pages/dashboard", fiber.Map{
		"Title":        "Product Search Dashboard",
		"ProductCount": total,
		"Categories":   categories,
		"Providers":    h.sync.ProviderNames(),
		"FilterKeys":   search.FilterKeys(),
		"SortCriteria": domain.SortCriteria(),
		"StatsError":   err != nil,
	}, "layouts/base")
}
