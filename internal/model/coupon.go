package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is the kind of discount a coupon grants.
type DiscountType string

const (
	// DiscountTypePercentage discounts a percentage of the subtotal.
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFixed discounts a fixed currency amount.
	DiscountTypeFixed DiscountType = "fixed"
)

// Coupon represents a discount rule with eligibility constraints.
// Codes are stored upper-cased; matching is case-insensitive.
type Coupon struct {
	Code              string          `json:"code"`
	DiscountType      DiscountType    `json:"discount_type"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	MinOrderAmount    decimal.Decimal `json:"min_order_amount"`
	MaxDiscountAmount decimal.Decimal `json:"max_discount_amount"` // percentage coupons only; zero = no cap
	MaxUses           int             `json:"max_uses"`            // 0 = unlimited
	UsedCount         int             `json:"used_count"`
	Active            bool            `json:"active"`
	ValidFrom         *time.Time      `json:"valid_from,omitempty"`
	ValidUntil        *time.Time      `json:"valid_until,omitempty"`
	CreatedAt         time.Time       `json:"-"` // Not exposed in API
}

// Redemption is the durable record that one coupon use was consumed by one booking.
// Created once, after payment success; never mutated afterward.
type Redemption struct {
	ID               string          `json:"id"`
	CouponCode       string          `json:"coupon_code"`
	BookingID        string          `json:"booking_id"`
	GuestID          string          `json:"guest_id"`
	AmountDiscounted decimal.Decimal `json:"amount_discounted"`
	CreatedAt        time.Time       `json:"created_at"`
}

// CouponResponse is the API response DTO for GET /api/coupons/:code
type CouponResponse struct {
	Coupon
	Redemptions []Redemption `json:"redemptions"`
}

// CreateCouponRequest is the DTO for creating a coupon.
// Decimal fields are range-checked in the service layer since
// validator numeric tags do not apply to decimal.Decimal.
type CreateCouponRequest struct {
	Code              string          `json:"code" validate:"required,notblank,max=64"`
	DiscountType      string          `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	MinOrderAmount    decimal.Decimal `json:"min_order_amount"`
	MaxDiscountAmount decimal.Decimal `json:"max_discount_amount"`
	MaxUses           int             `json:"max_uses" validate:"gte=0"`
	ValidFrom         *time.Time      `json:"valid_from"`
	ValidUntil        *time.Time      `json:"valid_until"`
}
