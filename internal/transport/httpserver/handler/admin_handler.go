package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-search-service/internal/app/service"
	"product-search-service/internal/transport/httpserver/dto"
)

// AdminHandler handles catalog administration requests.
type AdminHandler struct {
	syncService *service.SyncService
	logger      *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(syncSvc *service.SyncService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		syncService: syncSvc,
		logger:      logger,
	}
}

// SyncAll handles POST /api/v1/admin/sync
func (h *AdminHandler) SyncAll(c *fiber.Ctx) error {
	h.logger.Info("manual sync triggered")

	results := h.syncService.SyncAll(c.UserContext())

	return c.JSON(dto.FromSyncResults(results))
}

// SyncProvider handles POST /api/v1/admin/sync/:provider
func (h *AdminHandler) SyncProvider(c *fiber.Ctx) error {
	name := c.Params("provider")

	h.logger.Info("manual provider sync triggered", zap.String("provider", name))

	result, err := h.syncService.SyncProvider(c.UserContext(), name)
	if result == nil {
		return respondError(c, h.logger, err)
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error:   "catalog sync failed",
			Code:    "SYNC_FAILED",
			Details: dto.FromSyncResult(*result),
		})
	}

	return c.JSON(dto.FromSyncResult(*result))
}

// Providers handles GET /api/v1/admin/providers
func (h *AdminHandler) Providers(c *fiber.Ctx) error {
	health := h.syncService.ProviderHealth(c.UserContext())

	return c.JSON(dto.FromProviderHealth(h.syncService.ProviderNames(), health))
}
