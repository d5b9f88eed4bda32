package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/stayvilla/booking-pricing-system/internal/model"
	"github.com/stayvilla/booking-pricing-system/internal/service"
)

// PropertyServiceInterface defines the interface for property catalog logic.
type PropertyServiceInterface interface {
	CreateProperty(ctx context.Context, req *model.CreatePropertyRequest) (*model.Property, error)
	GetProperty(ctx context.Context, id string) (*model.Property, error)
}

// PropertyHandler handles HTTP requests for the property catalog.
type PropertyHandler struct {
	service   PropertyServiceInterface
	validator *validator.Validate
}

// NewPropertyHandler creates a new PropertyHandler with the given service and validator.
func NewPropertyHandler(svc PropertyServiceInterface, v *validator.Validate) *PropertyHandler {
	return &PropertyHandler{service: svc, validator: v}
}

// formatPropertyValidationError converts validator errors to field-specific messages.
func formatPropertyValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Field() {
			case "Name":
				if fe.Tag() == "max" {
					return "invalid request: name exceeds maximum length of 255"
				}
				return "invalid request: name is required"
			case "Currency":
				return "invalid request: currency must be a 3-letter code"
			default:
				return "invalid request: " + fe.Field() + " is invalid"
			}
		}
	}
	return "invalid request"
}

// CreateProperty handles POST /api/properties requests.
func (h *PropertyHandler) CreateProperty(c *fiber.Ctx) error {
	var req model.CreatePropertyRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatPropertyValidationError(err)})
	}

	property, err := h.service.CreateProperty(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().Err(err).Str("name", req.Name).Msg("failed to create property")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(fiber.StatusCreated).JSON(property)
}

// GetProperty handles GET /api/properties/:id requests.
func (h *PropertyHandler) GetProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: id is required",
		})
	}

	property, err := h.service.GetProperty(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "property not found"})
		}
		log.Error().Err(err).Str("property_id", id).Msg("failed to get property")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(property)
}
