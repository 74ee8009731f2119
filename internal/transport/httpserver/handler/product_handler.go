package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-search-service/internal/app/service"
	"product-search-service/internal/transport/httpserver/dto"
	"product-search-service/internal/validator"
)

// ProductHandler serves product CRUD.
type ProductHandler struct {
	service   *service.ProductService
	validator *validator.Validator
	paging    dto.Paging
	logger    *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService, v *validator.Validator, paging dto.Paging, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:   svc,
		validator: v,
		paging:    paging,
		logger:    logger,
	}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var req dto.ListProductsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  CodeInvalidArgument,
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	page, err := req.ToDomain(h.paging)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.service.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromProductPage(result))
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainProduct(p))
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	p := req.ToDomain()
	if err := h.service.Create(c.UserContext(), p); err != nil {
		return respondError(c, h.logger, err)
	}

	c.Location(fmt.Sprintf("/api/v1/products/%d", p.ID))
	return c.Status(fiber.StatusCreated).JSON(dto.FromDomainProduct(p))
}

// Update handles PATCH /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	p, err := h.service.Update(c.UserContext(), id, req.ToPatch())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainProduct(p))
}

// Replace handles PUT /api/v1/products/:id
func (h *ProductHandler) Replace(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if err := h.validator.Validate(&req); err != nil {
		return respondError(c, h.logger, err)
	}

	p, err := h.service.Replace(c.UserContext(), id, req.ToDomain())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(dto.FromDomainProduct(p))
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
