package model

import "github.com/shopspring/decimal"

// PricingResult is the output of one pricing pass. It is derived,
// never persisted, and recomputed from scratch on every input change.
type PricingResult struct {
	Nights              int             `json:"nights"`
	Currency            string          `json:"currency"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	ServiceFee          decimal.Decimal `json:"service_fee"`
	DiscountApplied     decimal.Decimal `json:"discount_applied"`
	FinalTotal          decimal.Decimal `json:"final_total"`
	LoyaltyPointsEarned int64           `json:"loyalty_points_earned"`
	JewelsEarned        int64           `json:"jewels_earned"`
}

// QuoteRequest is the DTO for computing a pricing quote.
// Dates use the YYYY-MM-DD wire format.
type QuoteRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid4"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests     int    `json:"guests" validate:"required,gte=1"`
	CouponCode string `json:"coupon_code" validate:"omitempty,notblank,max=64"`
}

// ConfirmBookingRequest is the DTO for post-payment booking confirmation.
// The checkout flow supplies the amounts it charged: Subtotal is the basis
// for loyalty accrual, DiscountApplied is recorded against the coupon.
type ConfirmBookingRequest struct {
	BookingID       string          `json:"booking_id" validate:"required,notblank,max=64"`
	GuestID         string          `json:"guest_id" validate:"required,notblank,max=64"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	CouponCode      string          `json:"coupon_code" validate:"omitempty,notblank,max=64"`
	DiscountApplied decimal.Decimal `json:"discount_applied"`
}

// BookingConfirmation reports the side effects of a confirmed booking.
// Redemption and loyalty failures are reported here, not as errors:
// a paid booking must never fail on bookkeeping.
type BookingConfirmation struct {
	BookingID           string `json:"booking_id"`
	CouponRedeemed      bool   `json:"coupon_redeemed"`
	RedemptionFailure   string `json:"redemption_failure,omitempty"`
	CouponUsedCount     int    `json:"coupon_used_count,omitempty"`
	LoyaltyAccrued      bool   `json:"loyalty_accrued"`
	LoyaltyPointsEarned int64  `json:"loyalty_points_earned"`
	JewelsEarned        int64  `json:"jewels_earned"`
}
