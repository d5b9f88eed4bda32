package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayvilla/booking-pricing-system/internal/model"
	"github.com/stayvilla/booking-pricing-system/internal/service"
	"github.com/stayvilla/booking-pricing-system/pkg/database"
)

// RedemptionPoolInterface defines the database operations needed by RedemptionRepository.
type RedemptionPoolInterface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// RedemptionRepository provides data access for redemption records using pgx.
type RedemptionRepository struct {
	pool RedemptionPoolInterface
}

// NewRedemptionRepository creates a new RedemptionRepository with the given pool.
func NewRedemptionRepository(pool *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

// NewRedemptionRepositoryWithPool creates a new RedemptionRepository with a custom pool interface.
// This is primarily used for testing.
func NewRedemptionRepositoryWithPool(pool RedemptionPoolInterface) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

// Insert inserts a new redemption record within a transaction.
// Returns service.ErrAlreadyRedeemed if the booking already redeemed this coupon.
func (r *RedemptionRepository) Insert(ctx context.Context, tx database.TxQuerier, redemption *model.Redemption) error {
	query := `INSERT INTO redemptions (id, coupon_code, booking_id, guest_id, amount_discounted)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query,
		redemption.ID, redemption.CouponCode, redemption.BookingID,
		redemption.GuestID, redemption.AmountDiscounted)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrAlreadyRedeemed
		}
		return fmt.Errorf("insert redemption: %w", err)
	}
	return nil
}

// ListByCoupon retrieves the redemption history of a coupon, oldest first.
// On success, returns an empty slice (not nil) when no redemptions exist.
func (r *RedemptionRepository) ListByCoupon(ctx context.Context, code string) ([]model.Redemption, error) {
	query := `SELECT id, coupon_code, booking_id, guest_id, amount_discounted, created_at
	          FROM redemptions WHERE coupon_code = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("list redemptions for coupon %s: %w", code, err)
	}
	defer rows.Close()

	var redemptions []model.Redemption
	for rows.Next() {
		var red model.Redemption
		if err := rows.Scan(&red.ID, &red.CouponCode, &red.BookingID, &red.GuestID,
			&red.AmountDiscounted, &red.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, red)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemption rows: %w", err)
	}

	// Return empty slice, not nil
	if redemptions == nil {
		redemptions = []model.Redemption{}
	}

	return redemptions, nil
}
