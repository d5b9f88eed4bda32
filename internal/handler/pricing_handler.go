package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/stayvilla/booking-pricing-system/internal/model"
	"github.com/stayvilla/booking-pricing-system/internal/pricing"
	"github.com/stayvilla/booking-pricing-system/internal/service"
)

// PricingServiceInterface defines the interface for pricing business logic.
type PricingServiceInterface interface {
	Quote(ctx context.Context, req *model.QuoteRequest) (*model.PricingResult, error)
}

// PricingHandler handles HTTP requests for pricing quotes.
type PricingHandler struct {
	service   PricingServiceInterface
	validator *validator.Validate
}

// NewPricingHandler creates a new PricingHandler with the given service and validator.
func NewPricingHandler(svc PricingServiceInterface, v *validator.Validate) *PricingHandler {
	return &PricingHandler{service: svc, validator: v}
}

// formatQuoteValidationError converts validator errors to field-specific messages.
func formatQuoteValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			switch fe.Field() {
			case "PropertyID":
				if fe.Tag() == "required" {
					return "invalid request: property_id is required"
				}
				return "invalid request: property_id must be a UUID"
			case "CheckIn":
				return "invalid request: check_in must be a YYYY-MM-DD date"
			case "CheckOut":
				return "invalid request: check_out must be a YYYY-MM-DD date"
			case "Guests":
				return "invalid request: guests must be at least 1"
			case "CouponCode":
				return "invalid request: coupon_code is invalid"
			default:
				return "invalid request: " + fe.Field() + " is invalid"
			}
		}
	}
	return "invalid request"
}

// couponRejectionMessage maps each coupon rejection reason to its own
// user-facing message. A generic "invalid coupon" is deliberately never
// returned; the storefront renders these verbatim.
func couponRejectionMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, pricing.ErrCouponInactive):
		return "coupon is inactive", true
	case errors.Is(err, pricing.ErrCouponNotYetValid):
		return "coupon is not yet valid", true
	case errors.Is(err, pricing.ErrCouponExpired):
		return "coupon has expired", true
	case errors.Is(err, pricing.ErrBelowMinimumOrder):
		// MinimumOrderError carries the threshold and shortfall
		return err.Error(), true
	case errors.Is(err, pricing.ErrUsageLimitReached):
		return "coupon usage limit reached", true
	}
	return "", false
}

// Quote handles POST /api/pricing/quote requests.
func (h *PricingHandler) Quote(c *fiber.Ctx) error {
	var req model.QuoteRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatQuoteValidationError(err)})
	}

	result, err := h.service.Quote(c.Context(), &req)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidDateRange) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "check-out must be after check-in"})
		}
		if errors.Is(err, service.ErrPropertyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "property not found"})
		}
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		if msg, ok := couponRejectionMessage(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().
			Err(err).
			Str("property_id", req.PropertyID).
			Str("coupon_code", req.CouponCode).
			Msg("failed to compute quote")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(result)
}
