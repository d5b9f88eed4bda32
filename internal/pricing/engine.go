// Package pricing implements the booking pricing pipeline: nights of stay,
// subtotal, service fee, coupon discount, final total, and loyalty accrual.
// Every function is pure; state (coupon usage counters) lives behind the
// repositories and is only read here.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stayvilla/booking-pricing-system/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Engine computes pricing for a stay. Construct with NewEngine; the fee
// rate and loyalty ratio come from configuration and never change at runtime.
type Engine struct {
	feeRate   decimal.Decimal
	earnRatio decimal.Decimal
}

// NewEngine creates an Engine. feeRate is a fraction (0.10 = 10%),
// earnRatio is the number of currency units that earn one loyalty point.
func NewEngine(feeRate float64, earnRatio int) *Engine {
	return &Engine{
		feeRate:   decimal.NewFromFloat(feeRate),
		earnRatio: decimal.NewFromInt(int64(earnRatio)),
	}
}

// Nights derives the nights of stay from a date range.
// A stay crossing any partial day counts as a full night (consumer booking
// convention, not financial day-counting).
// Returns ErrInvalidDateRange unless checkOut is strictly after checkIn.
func Nights(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, ErrInvalidDateRange
	}
	d := checkOut.Sub(checkIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights, nil
}

// Subtotal is nights x nightly rate.
func Subtotal(nights int, nightlyRate decimal.Decimal) decimal.Decimal {
	return nightlyRate.Mul(decimal.NewFromInt(int64(nights)))
}

// ServiceFee applies the configured fee rate to the subtotal.
func (e *Engine) ServiceFee(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(e.feeRate).Round(2)
}

// ValidateCoupon checks a coupon against the pre-fee subtotal at the given
// instant and returns the discount amount it grants. Checks short-circuit in
// a fixed order so each failure carries a distinct reason:
// inactive, not-yet-valid, expired, below minimum order, usage limit reached.
// Code lookup (not-found) happens before this call, in the service layer.
func ValidateCoupon(c *model.Coupon, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if !c.Active {
		return decimal.Zero, ErrCouponInactive
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return decimal.Zero, ErrCouponNotYetValid
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return decimal.Zero, ErrCouponExpired
	}
	if subtotal.LessThan(c.MinOrderAmount) {
		return decimal.Zero, &MinimumOrderError{MinOrderAmount: c.MinOrderAmount, Subtotal: subtotal}
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return decimal.Zero, ErrUsageLimitReached
	}
	return discountAmount(c, subtotal), nil
}

// discountAmount computes the discount an eligible coupon grants.
// Fixed coupons never discount more than the subtotal. Percentage coupons
// respect the max discount cap when it is set and nonzero; the cap is not
// read for fixed coupons.
func discountAmount(c *model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if c.DiscountType == model.DiscountTypeFixed {
		return decimal.Min(c.DiscountValue, subtotal)
	}
	discount := subtotal.Mul(c.DiscountValue).Div(hundred).Round(2)
	if c.MaxDiscountAmount.IsPositive() {
		discount = decimal.Min(discount, c.MaxDiscountAmount)
	}
	return discount
}

// FinalTotal composes subtotal, service fee, and discount, clamped at zero.
// A discount exceeding subtotal+fee is a valid edge case, not an error.
func FinalTotal(subtotal, serviceFee, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(serviceFee).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// LoyaltyPoints earns one point per earnRatio currency units, floored.
// Points accrue from the pre-fee, pre-discount subtotal, matching the
// product's charged-vs-rewarded asymmetry.
func (e *Engine) LoyaltyPoints(amount decimal.Decimal) int64 {
	if amount.IsNegative() {
		return 0
	}
	return amount.Div(e.earnRatio).Floor().IntPart()
}

// Quote runs the full pipeline for one stay. coupon may be nil (no code
// entered); a non-nil coupon that fails validation fails the quote with
// that coupon's rejection reason.
func (e *Engine) Quote(nightlyRate decimal.Decimal, checkIn, checkOut time.Time, coupon *model.Coupon, now time.Time) (*model.PricingResult, error) {
	nights, err := Nights(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	subtotal := Subtotal(nights, nightlyRate)
	fee := e.ServiceFee(subtotal)

	discount := decimal.Zero
	if coupon != nil {
		discount, err = ValidateCoupon(coupon, subtotal, now)
		if err != nil {
			return nil, err
		}
	}

	points := e.LoyaltyPoints(subtotal)
	return &model.PricingResult{
		Nights:              nights,
		Subtotal:            subtotal,
		ServiceFee:          fee,
		DiscountApplied:     discount,
		FinalTotal:          FinalTotal(subtotal, fee, discount),
		LoyaltyPointsEarned: points,
		JewelsEarned:        points, // 1:1
	}, nil
}
