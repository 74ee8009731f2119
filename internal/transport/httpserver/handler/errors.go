// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"product-search-service/internal/domain"
	"product-search-service/internal/transport/httpserver/dto"
	"product-search-service/internal/validator"
)

// Error codes returned in dto.ErrorResponse.Code.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeInvalidBody         = "INVALID_BODY"
	CodeNotFound            = "NOT_FOUND"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
)

// respondError maps the domain error taxonomy onto HTTP status codes.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    CodeValidation,
			Details: validationErrs,
		})
	case errors.Is(err, domain.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  CodeInvalidArgument,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: err.Error(),
			Code:  CodeNotFound,
		})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		logger.Error("upstream unavailable", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: "product storage is unavailable",
			Code:  CodeUpstreamUnavailable,
		})
	default:
		logger.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "internal server error",
			Code:  CodeInternal,
		})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: "request body is not valid JSON",
		Code:  CodeInvalidBody,
	})
}

// productID parses the :id route parameter.
func productID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.InvalidArgumentf("product id must be a positive integer, got %q", c.Params("id"))
	}
	return id, nil
}
