package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/stayvilla/booking-pricing-system/internal/model"
)

// BookingServiceInterface defines the interface for booking confirmation logic.
type BookingServiceInterface interface {
	Confirm(ctx context.Context, req *model.ConfirmBookingRequest) (*model.BookingConfirmation, error)
	LoyaltyBalance(ctx context.Context, guestID string) (points, jewels int64, err error)
}

// BookingHandler handles HTTP requests for booking confirmation and loyalty.
type BookingHandler struct {
	service   BookingServiceInterface
	validator *validator.Validate
}

// NewBookingHandler creates a new BookingHandler with the given service and validator.
func NewBookingHandler(svc BookingServiceInterface, v *validator.Validate) *BookingHandler {
	return &BookingHandler{service: svc, validator: v}
}

// formatConfirmValidationError converts validator errors to field-specific messages.
func formatConfirmValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			switch field {
			case "BookingID":
				return "invalid request: booking_id is required"
			case "GuestID":
				return "invalid request: guest_id is required"
			case "CouponCode":
				return "invalid request: coupon_code is invalid"
			default:
				if fe.Tag() == "required" {
					return "invalid request: " + field + " is required"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// Confirm handles POST /api/bookings/confirm requests, invoked by the
// checkout flow after payment success. Redemption and loyalty bookkeeping
// failures come back inside the 200 payload: the booking is already paid,
// so they must never fail the request.
func (h *BookingHandler) Confirm(c *fiber.Ctx) error {
	var req model.ConfirmBookingRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatConfirmValidationError(err)})
	}

	conf, err := h.service.Confirm(c.Context(), &req)
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("booking_id", req.BookingID).
			Str("guest_id", req.GuestID).
			Msg("failed to confirm booking")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("booking_id", conf.BookingID).
		Bool("coupon_redeemed", conf.CouponRedeemed).
		Int64("loyalty_points", conf.LoyaltyPointsEarned).
		Msg("booking confirmed")

	return c.JSON(conf)
}

// LoyaltyBalance handles GET /api/loyalty/:guest_id requests.
func (h *BookingHandler) LoyaltyBalance(c *fiber.Ctx) error {
	guestID := c.Params("guest_id")
	if guestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: guest_id is required"})
	}

	points, jewels, err := h.service.LoyaltyBalance(c.Context(), guestID)
	if err != nil {
		log.Error().Err(err).Str("guest_id", guestID).Msg("failed to read loyalty balance")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(fiber.Map{
		"guest_id": guestID,
		"points":   points,
		"jewels":   jewels,
	})
}
