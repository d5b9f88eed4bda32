package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayvilla/booking-pricing-system/internal/model"
	"github.com/stayvilla/booking-pricing-system/internal/pricing"
	"github.com/stayvilla/booking-pricing-system/internal/service"
	"github.com/stayvilla/booking-pricing-system/pkg/database"
)

// PoolInterface defines the database operations needed by CouponRepository.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CouponRepository provides data access for coupons using pgx.
// Callers pass codes already normalized (trimmed, upper-cased).
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom pool interface.
// This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// Insert inserts a new coupon into the database.
// Returns service.ErrCouponExists if a coupon with the same code already exists.
func (r *CouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO coupons
			(code, discount_type, discount_value, min_order_amount, max_discount_amount,
			 max_uses, used_count, active, valid_from, valid_until)
		 VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9)`,
		coupon.Code, coupon.DiscountType, coupon.DiscountValue, coupon.MinOrderAmount,
		coupon.MaxDiscountAmount, coupon.MaxUses, coupon.Active, coupon.ValidFrom, coupon.ValidUntil)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its normalized code.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT code, discount_type, discount_value, min_order_amount, max_discount_amount,
	                 max_uses, used_count, active, valid_from, valid_until, created_at
	          FROM coupons WHERE code = $1`

	var coupon model.Coupon
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&coupon.Code,
		&coupon.DiscountType,
		&coupon.DiscountValue,
		&coupon.MinOrderAmount,
		&coupon.MaxDiscountAmount,
		&coupon.MaxUses,
		&coupon.UsedCount,
		&coupon.Active,
		&coupon.ValidFrom,
		&coupon.ValidUntil,
		&coupon.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}
	return &coupon, nil
}

// Deactivate clears the active flag. The bool reports whether the code existed.
func (r *CouponRepository) Deactivate(ctx context.Context, code string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE coupons SET active = FALSE WHERE code = $1`, code)
	if err != nil {
		return false, fmt.Errorf("deactivate coupon %s: %w", code, err)
	}
	return tag.RowsAffected() > 0, nil
}

// IncrementUsage consumes one use of a coupon inside a transaction.
// The UPDATE only matches while uses remain (max_uses = 0 means unlimited),
// so the increment-if-below-cap check and the write are a single atomic
// statement rather than a read-then-write.
// Returns the new used count, service.ErrCouponNotFound for a missing code,
// or pricing.ErrUsageLimitReached when the cap is exhausted.
func (r *CouponRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, code string) (int, error) {
	query := `UPDATE coupons
	          SET used_count = used_count + 1
	          WHERE code = $1 AND (max_uses = 0 OR used_count < max_uses)
	          RETURNING used_count`

	var usedCount int
	err := tx.QueryRow(ctx, query, code).Scan(&usedCount)
	if err == nil {
		return usedCount, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("increment usage for %s: %w", code, err)
	}

	// No row matched: distinguish a missing coupon from an exhausted cap.
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE code = $1)`, code).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check coupon %s: %w", code, err)
	}
	if !exists {
		return 0, service.ErrCouponNotFound
	}
	return 0, pricing.ErrUsageLimitReached
}
