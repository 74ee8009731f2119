package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-search-service/internal/app/service"
	"product-search-service/internal/transport/httpserver/dto"
	"product-search-service/internal/validator"
)

// SearchHandler handles search-related HTTP requests.
type SearchHandler struct {
	service   *service.SearchService
	validator *validator.Validator
	paging    dto.Paging
	logger    *zap.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.SearchService, v *validator.Validator, paging dto.Paging, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		service:   svc,
		validator: v,
		paging:    paging,
		logger:    logger,
	}
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	searchReq, err := req.ToDomain(h.paging)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	page, err := h.service.Search(c.UserContext(), searchReq)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromProductPage(page))
}

// SearchByCategory handles GET /api/v1/search/by-category
func (h *SearchHandler) SearchByCategory(c *fiber.Ctx) error {
	var req dto.SimpleSearchRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  CodeInvalidArgument,
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	searchReq, err := req.ToService(h.paging)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	page, err := h.service.SimpleSearch(c.UserContext(), searchReq)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromProductPage(page))
}
