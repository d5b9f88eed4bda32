package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stayvilla/booking-pricing-system/internal/model"
)

// CouponRepositoryInterface defines the interface for coupon administration.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	Deactivate(ctx context.Context, code string) (bool, error)
}

// RedemptionReaderInterface lists the redemption history of a coupon.
type RedemptionReaderInterface interface {
	ListByCoupon(ctx context.Context, code string) ([]model.Redemption, error)
}

// CouponService provides the back-office coupon operations.
type CouponService struct {
	couponRepo     CouponRepositoryInterface
	redemptionRepo RedemptionReaderInterface
}

// NewCouponService creates a CouponService with the given repositories.
func NewCouponService(couponRepo CouponRepositoryInterface, redemptionRepo RedemptionReaderInterface) *CouponService {
	return &CouponService{
		couponRepo:     couponRepo,
		redemptionRepo: redemptionRepo,
	}
}

var oneHundred = decimal.NewFromInt(100)

// Create creates a new coupon from the request. Codes are stored
// upper-cased so matching stays case-insensitive.
// Returns ErrCouponExists if the code is already taken, ErrInvalidRequest
// for out-of-range discount values or an inverted validity window.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	discountType := model.DiscountType(req.DiscountType)
	if !req.DiscountValue.IsPositive() {
		return nil, fmt.Errorf("%w: discount_value must be positive", ErrInvalidRequest)
	}
	if discountType == model.DiscountTypePercentage && req.DiscountValue.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("%w: percentage discount_value cannot exceed 100", ErrInvalidRequest)
	}
	if req.MinOrderAmount.IsNegative() {
		return nil, fmt.Errorf("%w: min_order_amount cannot be negative", ErrInvalidRequest)
	}
	if req.MaxDiscountAmount.IsNegative() {
		return nil, fmt.Errorf("%w: max_discount_amount cannot be negative", ErrInvalidRequest)
	}
	if req.ValidFrom != nil && req.ValidUntil != nil && req.ValidUntil.Before(*req.ValidFrom) {
		return nil, fmt.Errorf("%w: valid_until precedes valid_from", ErrInvalidRequest)
	}

	coupon := &model.Coupon{
		Code:              NormalizeCouponCode(req.Code),
		DiscountType:      discountType,
		DiscountValue:     req.DiscountValue,
		MinOrderAmount:    req.MinOrderAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MaxUses:           req.MaxUses,
		Active:            true,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
	}
	if err := s.couponRepo.Insert(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetByCode retrieves a coupon with its redemption history.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) GetByCode(ctx context.Context, code string) (*model.CouponResponse, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, NormalizeCouponCode(code))
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}

	redemptions, err := s.redemptionRepo.ListByCoupon(ctx, coupon.Code)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}

	return &model.CouponResponse{
		Coupon:      *coupon,
		Redemptions: redemptions,
	}, nil
}

// Deactivate switches a coupon off. Already-inactive coupons deactivate
// without error; only a missing code is ErrCouponNotFound.
func (s *CouponService) Deactivate(ctx context.Context, code string) error {
	found, err := s.couponRepo.Deactivate(ctx, NormalizeCouponCode(code))
	if err != nil {
		return fmt.Errorf("deactivate coupon: %w", err)
	}
	if !found {
		return ErrCouponNotFound
	}
	return nil
}
