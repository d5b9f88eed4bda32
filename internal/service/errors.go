package service

import "errors"

var (
	// ErrPropertyNotFound is returned when a property cannot be resolved
	ErrPropertyNotFound = errors.New("property not found")

	// ErrCouponNotFound is returned when a coupon code does not resolve
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponExists is returned when creating a coupon whose code is taken
	ErrCouponExists = errors.New("coupon already exists")

	// ErrAlreadyRedeemed is returned when a booking retries a redemption
	// that has already been recorded
	ErrAlreadyRedeemed = errors.New("coupon already redeemed for this booking")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")
)
