package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/stayvilla/booking-pricing-system/internal/model"
	"github.com/stayvilla/booking-pricing-system/pkg/database"
)

// CouponRedeemerInterface is the transactional coupon access the
// confirmation path needs.
type CouponRedeemerInterface interface {
	IncrementUsage(ctx context.Context, tx database.TxQuerier, code string) (int, error)
}

// RedemptionRepositoryInterface defines the interface for redemption records.
type RedemptionRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, redemption *model.Redemption) error
}

// LoyaltyRepositoryInterface defines the interface for loyalty accounts.
type LoyaltyRepositoryInterface interface {
	Accrue(ctx context.Context, guestID string, points, jewels int64) error
	Balance(ctx context.Context, guestID string) (points, jewels int64, err error)
}

// LoyaltyCalculator derives loyalty points from a spend amount.
// Implemented by pricing.Engine.
type LoyaltyCalculator interface {
	LoyaltyPoints(amount decimal.Decimal) int64
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BookingService finalizes paid bookings: it consumes the coupon use and
// accrues loyalty points. Neither step may fail the booking; failures are
// logged and reported in the confirmation payload for out-of-band
// reconciliation.
type BookingService struct {
	pool           TxBeginner
	couponRepo     CouponRedeemerInterface
	redemptionRepo RedemptionRepositoryInterface
	loyaltyRepo    LoyaltyRepositoryInterface
	loyalty        LoyaltyCalculator
}

// NewBookingService creates a BookingService with the given pool, repositories, and engine.
func NewBookingService(pool *pgxpool.Pool, couponRepo CouponRedeemerInterface, redemptionRepo RedemptionRepositoryInterface, loyaltyRepo LoyaltyRepositoryInterface, loyalty LoyaltyCalculator) *BookingService {
	return &BookingService{
		pool:           pool,
		couponRepo:     couponRepo,
		redemptionRepo: redemptionRepo,
		loyaltyRepo:    loyaltyRepo,
		loyalty:        loyalty,
	}
}

// NewBookingServiceWithTxBeginner creates a BookingService with a custom TxBeginner.
// Primarily used for testing.
func NewBookingServiceWithTxBeginner(pool TxBeginner, couponRepo CouponRedeemerInterface, redemptionRepo RedemptionRepositoryInterface, loyaltyRepo LoyaltyRepositoryInterface, loyalty LoyaltyCalculator) *BookingService {
	return &BookingService{
		pool:           pool,
		couponRepo:     couponRepo,
		redemptionRepo: redemptionRepo,
		loyaltyRepo:    loyaltyRepo,
		loyalty:        loyalty,
	}
}

// Confirm records the side effects of a paid booking: coupon redemption
// (when a code was applied) and loyalty accrual. It only errors on invalid
// input; redemption and accrual failures are reported in the returned
// confirmation, never as an error, because payment has already succeeded.
func (s *BookingService) Confirm(ctx context.Context, req *model.ConfirmBookingRequest) (*model.BookingConfirmation, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if req.Subtotal.IsNegative() {
		return nil, fmt.Errorf("%w: subtotal cannot be negative", ErrInvalidRequest)
	}

	conf := &model.BookingConfirmation{BookingID: req.BookingID}

	if req.CouponCode != "" {
		newCount, err := s.RedeemCoupon(ctx, NormalizeCouponCode(req.CouponCode), req.BookingID, req.GuestID, req.DiscountApplied)
		if err != nil {
			// Surfaced for reconciliation, not fatal to the booking
			log.Error().
				Err(err).
				Str("booking_id", req.BookingID).
				Str("guest_id", req.GuestID).
				Str("coupon_code", req.CouponCode).
				Msg("coupon redemption failed after payment")
			conf.RedemptionFailure = err.Error()
		} else {
			conf.CouponRedeemed = true
			conf.CouponUsedCount = newCount
		}
	}

	points := s.loyalty.LoyaltyPoints(req.Subtotal)
	conf.LoyaltyPointsEarned = points
	conf.JewelsEarned = points // 1:1

	if err := s.loyaltyRepo.Accrue(ctx, req.GuestID, points, points); err != nil {
		// Fire-and-forget: never surfaced to the guest
		log.Error().
			Err(err).
			Str("booking_id", req.BookingID).
			Str("guest_id", req.GuestID).
			Int64("points", points).
			Msg("loyalty accrual failed")
	} else {
		conf.LoyaltyAccrued = true
	}

	return conf, nil
}

// LoyaltyBalance reports a guest's accrued points and jewels.
// Guests with no accrual history have a zero balance.
func (s *BookingService) LoyaltyBalance(ctx context.Context, guestID string) (points, jewels int64, err error) {
	points, jewels, err = s.loyaltyRepo.Balance(ctx, guestID)
	if err != nil {
		return 0, 0, fmt.Errorf("loyalty balance: %w", err)
	}
	return points, jewels, nil
}

// RedeemCoupon atomically consumes one use of a coupon for a booking.
// The usage counter is incremented with a conditional UPDATE that only
// matches while uses remain, so two concurrent redemptions of the last use
// cannot both succeed. The redemption record is inserted in the same
// transaction; its unique constraint makes retries per booking idempotent.
// Returns the new used count, or:
//   - ErrCouponNotFound if the coupon doesn't exist
//   - pricing.ErrUsageLimitReached if no uses remain at commit time
//   - ErrAlreadyRedeemed if this booking already redeemed the coupon
func (s *BookingService) RedeemCoupon(ctx context.Context, code, bookingID, guestID string, amount decimal.Decimal) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	newCount, err := s.couponRepo.IncrementUsage(ctx, tx, code)
	if err != nil {
		return 0, err
	}

	redemption := &model.Redemption{
		ID:               uuid.NewString(),
		CouponCode:       code,
		BookingID:        bookingID,
		GuestID:          guestID,
		AmountDiscounted: amount,
	}
	if err := s.redemptionRepo.Insert(ctx, tx, redemption); err != nil {
		if errors.Is(err, ErrAlreadyRedeemed) {
			return 0, ErrAlreadyRedeemed
		}
		return 0, fmt.Errorf("insert redemption: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit redemption: %w", err)
	}
	return newCount, nil
}
