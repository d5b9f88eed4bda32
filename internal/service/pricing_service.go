package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stayvilla/booking-pricing-system/internal/model"
	"github.com/stayvilla/booking-pricing-system/internal/pricing"
)

// PropertyRepositoryInterface defines the interface for property data access.
type PropertyRepositoryInterface interface {
	Insert(ctx context.Context, property *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
}

// CouponReaderInterface is the read-only coupon access the quote path needs.
type CouponReaderInterface interface {
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
}

// PricingService computes pricing quotes: it resolves the property and the
// optional coupon, then runs the pure pricing pipeline over them.
type PricingService struct {
	propertyRepo PropertyRepositoryInterface
	couponRepo   CouponReaderInterface
	engine       *pricing.Engine
	now          func() time.Time
}

// NewPricingService creates a PricingService with the given repositories and engine.
func NewPricingService(propertyRepo PropertyRepositoryInterface, couponRepo CouponReaderInterface, engine *pricing.Engine) *PricingService {
	return &PricingService{
		propertyRepo: propertyRepo,
		couponRepo:   couponRepo,
		engine:       engine,
		now:          time.Now,
	}
}

// NormalizeCouponCode trims and upper-cases a coupon code for matching.
// Codes are stored upper-cased, making lookups case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Quote computes the pricing for one stay. The coupon code is optional;
// when present it must resolve and pass validation, otherwise the quote
// fails with the coupon's rejection reason so callers can render a precise
// message and re-prompt.
// Returns:
//   - ErrPropertyNotFound if the property doesn't exist
//   - pricing.ErrInvalidDateRange for check-out not after check-in
//   - ErrCouponNotFound, or a pricing coupon rejection, for coupon failures
func (s *PricingService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.PricingResult, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	checkIn, checkOut, err := parseStayDates(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	var coupon *model.Coupon
	if req.CouponCode != "" {
		coupon, err = s.couponRepo.GetByCode(ctx, NormalizeCouponCode(req.CouponCode))
		if err != nil {
			return nil, fmt.Errorf("get coupon: %w", err)
		}
		if coupon == nil {
			return nil, ErrCouponNotFound
		}
	}

	result, err := s.engine.Quote(property.NightlyRate, checkIn, checkOut, coupon, s.now())
	if err != nil {
		return nil, err
	}
	result.Currency = property.Currency
	return result, nil
}

// CreateProperty registers a property in the catalog.
// Returns ErrInvalidRequest when the nightly rate is not positive.
func (s *PricingService) CreateProperty(ctx context.Context, req *model.CreatePropertyRequest) (*model.Property, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if !req.NightlyRate.IsPositive() {
		return nil, fmt.Errorf("%w: nightly_rate must be positive", ErrInvalidRequest)
	}

	property := &model.Property{
		ID:          uuid.NewString(),
		Name:        req.Name,
		NightlyRate: req.NightlyRate,
		Currency:    strings.ToUpper(req.Currency),
	}
	if err := s.propertyRepo.Insert(ctx, property); err != nil {
		return nil, fmt.Errorf("insert property: %w", err)
	}
	return property, nil
}

// GetProperty retrieves a property by id.
// Returns ErrPropertyNotFound if the property doesn't exist.
func (s *PricingService) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	return property, nil
}

// parseStayDates parses the YYYY-MM-DD wire dates. Ordering is validated by
// the engine, not here, so InvalidDateRange has a single source of truth.
func parseStayDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: check_in: %v", ErrInvalidRequest, err)
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: check_out: %v", ErrInvalidRequest, err)
	}
	return in, out, nil
}
