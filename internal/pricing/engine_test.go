package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayvilla/booking-pricing-system/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// activeCoupon returns a coupon that passes every validation check.
func activeCoupon() *model.Coupon {
	return &model.Coupon{
		Code:          "SAVE10",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: dec("10"),
		Active:        true,
	}
}

func TestNights_WholeDays(t *testing.T) {
	testCases := []struct {
		name     string
		checkIn  string
		checkOut string
		want     int
	}{
		{name: "one_night", checkIn: "2025-03-01", checkOut: "2025-03-02", want: 1},
		{name: "three_nights", checkIn: "2025-03-01", checkOut: "2025-03-04", want: 3},
		{name: "month_boundary", checkIn: "2025-02-27", checkOut: "2025-03-02", want: 3},
		{name: "year_long", checkIn: "2025-01-01", checkOut: "2026-01-01", want: 365},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nights, err := Nights(date(tc.checkIn), date(tc.checkOut))
			require.NoError(t, err)
			assert.Equal(t, tc.want, nights)
		})
	}
}

func TestNights_PartialDayCountsAsFullNight(t *testing.T) {
	// 2pm check-in, 11am check-out two days later: crosses a partial day
	checkIn := date("2025-03-01").Add(14 * time.Hour)
	checkOut := date("2025-03-03").Add(11 * time.Hour)

	nights, err := Nights(checkIn, checkOut)
	require.NoError(t, err)
	assert.Equal(t, 2, nights, "1d21h should round up to 2 nights")

	// Sub-day stay still counts as one night
	nights, err = Nights(checkIn, checkIn.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, nights)
}

func TestNights_InvalidDateRange(t *testing.T) {
	// Same date
	_, err := Nights(date("2025-03-01"), date("2025-03-01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	// Check-out before check-in
	_, err = Nights(date("2025-03-04"), date("2025-03-01"))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestSubtotal(t *testing.T) {
	subtotal := Subtotal(3, dec("10000"))
	assert.True(t, subtotal.Equal(dec("30000")), "subtotal = nights x rate, got %s", subtotal)
}

func TestServiceFee_TenPercent(t *testing.T) {
	e := NewEngine(0.10, 100)
	fee := e.ServiceFee(dec("30000"))
	assert.True(t, fee.Equal(dec("3000")), "got %s", fee)
}

func TestServiceFee_RoundsToCents(t *testing.T) {
	e := NewEngine(0.10, 100)
	fee := e.ServiceFee(dec("99.99"))
	assert.True(t, fee.Equal(dec("10")), "9.999 should round to 10.00, got %s", fee)
}

func TestValidateCoupon_Inactive(t *testing.T) {
	c := activeCoupon()
	c.Active = false

	_, err := ValidateCoupon(c, dec("30000"), time.Now())
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestValidateCoupon_NotYetValid(t *testing.T) {
	now := date("2025-03-01")
	c := activeCoupon()
	c.ValidFrom = timePtr(date("2025-04-01"))

	_, err := ValidateCoupon(c, dec("30000"), now)
	assert.ErrorIs(t, err, ErrCouponNotYetValid)
}

func TestValidateCoupon_Expired(t *testing.T) {
	now := date("2025-03-01")
	c := activeCoupon()
	c.ValidUntil = timePtr(date("2025-02-01"))

	// Rejected regardless of subtotal
	_, err := ValidateCoupon(c, dec("999999"), now)
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestValidateCoupon_OpenEndedWindow(t *testing.T) {
	now := date("2025-03-01")
	c := activeCoupon()
	c.ValidFrom = timePtr(date("2025-01-01"))
	// ValidUntil nil: unbounded

	discount, err := ValidateCoupon(c, dec("30000"), now)
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("3000")))
}

func TestValidateCoupon_BelowMinimumOrder(t *testing.T) {
	c := activeCoupon()
	c.DiscountType = model.DiscountTypeFixed
	c.DiscountValue = dec("5000")
	c.MinOrderAmount = dec("40000")

	_, err := ValidateCoupon(c, dec("30000"), time.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBelowMinimumOrder)

	// The message must carry the threshold and the shortfall
	var moe *MinimumOrderError
	require.True(t, errors.As(err, &moe))
	assert.True(t, moe.MinOrderAmount.Equal(dec("40000")))
	assert.Contains(t, err.Error(), "40000")
	assert.Contains(t, err.Error(), "10000")
}

func TestValidateCoupon_UsageLimitReached(t *testing.T) {
	c := activeCoupon()
	c.MaxUses = 1
	c.UsedCount = 1

	_, err := ValidateCoupon(c, dec("30000"), time.Now())
	assert.ErrorIs(t, err, ErrUsageLimitReached)
}

func TestValidateCoupon_UnlimitedUses(t *testing.T) {
	c := activeCoupon()
	c.MaxUses = 0 // unlimited
	c.UsedCount = 1000000

	_, err := ValidateCoupon(c, dec("30000"), time.Now())
	assert.NoError(t, err)
}

func TestValidateCoupon_ChecksShortCircuitInOrder(t *testing.T) {
	// A coupon failing several checks reports the first failure only:
	// inactive wins over below-minimum and usage limit.
	c := activeCoupon()
	c.Active = false
	c.MinOrderAmount = dec("40000")
	c.MaxUses = 1
	c.UsedCount = 1

	_, err := ValidateCoupon(c, dec("30000"), time.Now())
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestValidateCoupon_FixedClampedToSubtotal(t *testing.T) {
	c := activeCoupon()
	c.DiscountType = model.DiscountTypeFixed
	c.DiscountValue = dec("5000")

	discount, err := ValidateCoupon(c, dec("2000"), time.Now())
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("2000")), "fixed discount never exceeds subtotal, got %s", discount)
}

func TestValidateCoupon_PercentageCapped(t *testing.T) {
	c := activeCoupon()
	c.DiscountValue = dec("50")
	c.MaxDiscountAmount = dec("1000")

	discount, err := ValidateCoupon(c, dec("100000"), time.Now())
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("1000")), "cap applies regardless of subtotal size, got %s", discount)
}

func TestValidateCoupon_PercentageZeroCapMeansNoCap(t *testing.T) {
	c := activeCoupon()
	c.DiscountValue = dec("50")
	c.MaxDiscountAmount = decimal.Zero

	discount, err := ValidateCoupon(c, dec("100000"), time.Now())
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("50000")))
}

func TestValidateCoupon_CapNotReadForFixedType(t *testing.T) {
	c := activeCoupon()
	c.DiscountType = model.DiscountTypeFixed
	c.DiscountValue = dec("5000")
	c.MaxDiscountAmount = dec("1000") // ignored for fixed coupons

	discount, err := ValidateCoupon(c, dec("30000"), time.Now())
	require.NoError(t, err)
	assert.True(t, discount.Equal(dec("5000")))
}

func TestFinalTotal_Composition(t *testing.T) {
	total := FinalTotal(dec("30000"), dec("3000"), dec("3000"))
	assert.True(t, total.Equal(dec("30000")))
}

func TestFinalTotal_NeverNegative(t *testing.T) {
	// Discount exceeding subtotal+fee clamps to zero rather than failing
	total := FinalTotal(dec("1000"), dec("100"), dec("5000"))
	assert.True(t, total.Equal(decimal.Zero), "got %s", total)
	assert.False(t, total.IsNegative())
}

func TestLoyaltyPoints_Boundaries(t *testing.T) {
	e := NewEngine(0.10, 100)

	testCases := []struct {
		amount string
		want   int64
	}{
		{amount: "0", want: 0},
		{amount: "99", want: 0},
		{amount: "100", want: 1},
		{amount: "199", want: 1},
		{amount: "200", want: 2},
		{amount: "30000", want: 300},
	}

	for _, tc := range testCases {
		points := e.LoyaltyPoints(dec(tc.amount))
		assert.Equal(t, tc.want, points, "amount=%s", tc.amount)
	}
}

func TestQuote_NoCoupon(t *testing.T) {
	// Rate 10,000/night, 2025-03-01 to 2025-03-04
	e := NewEngine(0.10, 100)

	result, err := e.Quote(dec("10000"), date("2025-03-01"), date("2025-03-04"), nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Nights)
	assert.True(t, result.Subtotal.Equal(dec("30000")))
	assert.True(t, result.ServiceFee.Equal(dec("3000")))
	assert.True(t, result.DiscountApplied.Equal(decimal.Zero))
	assert.True(t, result.FinalTotal.Equal(dec("33000")))
	assert.Equal(t, int64(300), result.LoyaltyPointsEarned)
	assert.Equal(t, int64(300), result.JewelsEarned)
}

func TestQuote_PercentageCoupon(t *testing.T) {
	e := NewEngine(0.10, 100)
	c := activeCoupon() // SAVE10: 10%, no cap
	c.MinOrderAmount = dec("2000")

	result, err := e.Quote(dec("10000"), date("2025-03-01"), date("2025-03-04"), c, time.Now())
	require.NoError(t, err)

	assert.True(t, result.DiscountApplied.Equal(dec("3000")))
	assert.True(t, result.FinalTotal.Equal(dec("30000")))
}

func TestQuote_CouponBelowMinimumFailsQuote(t *testing.T) {
	e := NewEngine(0.10, 100)
	c := activeCoupon()
	c.DiscountType = model.DiscountTypeFixed
	c.DiscountValue = dec("5000")
	c.MinOrderAmount = dec("40000")

	_, err := e.Quote(dec("10000"), date("2025-03-01"), date("2025-03-04"), c, time.Now())
	assert.ErrorIs(t, err, ErrBelowMinimumOrder)
}

func TestQuote_InvalidDateRange(t *testing.T) {
	e := NewEngine(0.10, 100)

	_, err := e.Quote(dec("10000"), date("2025-03-01"), date("2025-03-01"), nil, time.Now())
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

// TestQuote_LoyaltyFromPreDiscountSubtotal pins the charged-vs-rewarded
// asymmetry: points come from the subtotal, not the discounted final total.
func TestQuote_LoyaltyFromPreDiscountSubtotal(t *testing.T) {
	e := NewEngine(0.10, 100)
	c := activeCoupon()
	c.DiscountValue = dec("50")

	result, err := e.Quote(dec("10000"), date("2025-03-01"), date("2025-03-04"), c, time.Now())
	require.NoError(t, err)

	assert.True(t, result.FinalTotal.Equal(dec("18000")))
	assert.Equal(t, int64(300), result.LoyaltyPointsEarned, "points from 30000 subtotal, not 18000 final")
}
