package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidDateRange is returned when check-out is not strictly after check-in
	ErrInvalidDateRange = errors.New("check-out must be after check-in")

	// ErrCouponInactive is returned when a coupon has been switched off
	ErrCouponInactive = errors.New("coupon is inactive")

	// ErrCouponNotYetValid is returned before a coupon's validity window opens
	ErrCouponNotYetValid = errors.New("coupon is not yet valid")

	// ErrCouponExpired is returned after a coupon's validity window closes
	ErrCouponExpired = errors.New("coupon has expired")

	// ErrBelowMinimumOrder is the match target for MinimumOrderError
	ErrBelowMinimumOrder = errors.New("subtotal below coupon minimum order amount")

	// ErrUsageLimitReached is returned when a capped coupon has no uses left.
	// Shared with the redemption path: validation-time and commit-time cap
	// exhaustion are the same condition to callers.
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
)

// MinimumOrderError reports a subtotal under the coupon's minimum order
// amount. Callers render the threshold and shortfall to the guest.
type MinimumOrderError struct {
	MinOrderAmount decimal.Decimal
	Subtotal       decimal.Decimal
}

func (e *MinimumOrderError) Error() string {
	shortfall := e.MinOrderAmount.Sub(e.Subtotal)
	return fmt.Sprintf("subtotal %s is below the coupon minimum order amount %s (short by %s)",
		e.Subtotal.String(), e.MinOrderAmount.String(), shortfall.String())
}

// Is lets errors.Is(err, ErrBelowMinimumOrder) match a MinimumOrderError.
func (e *MinimumOrderError) Is(target error) bool {
	return target == ErrBelowMinimumOrder
}
