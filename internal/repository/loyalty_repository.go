package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoyaltyPoolInterface defines the database operations needed by LoyaltyRepository.
type LoyaltyPoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// LoyaltyRepository provides data access for loyalty accounts using pgx.
type LoyaltyRepository struct {
	pool LoyaltyPoolInterface
}

// NewLoyaltyRepository creates a new LoyaltyRepository with the given pool.
func NewLoyaltyRepository(pool *pgxpool.Pool) *LoyaltyRepository {
	return &LoyaltyRepository{pool: pool}
}

// NewLoyaltyRepositoryWithPool creates a new LoyaltyRepository with a custom pool interface.
// This is primarily used for testing.
func NewLoyaltyRepositoryWithPool(pool LoyaltyPoolInterface) *LoyaltyRepository {
	return &LoyaltyRepository{pool: pool}
}

// Accrue adds points and jewels to a guest's account, creating it on first use.
func (r *LoyaltyRepository) Accrue(ctx context.Context, guestID string, points, jewels int64) error {
	query := `INSERT INTO loyalty_accounts (guest_id, points, jewels, updated_at)
	          VALUES ($1, $2, $3, now())
	          ON CONFLICT (guest_id) DO UPDATE
	          SET points = loyalty_accounts.points + EXCLUDED.points,
	              jewels = loyalty_accounts.jewels + EXCLUDED.jewels,
	              updated_at = now()`

	_, err := r.pool.Exec(ctx, query, guestID, points, jewels)
	if err != nil {
		return fmt.Errorf("accrue loyalty for guest %s: %w", guestID, err)
	}
	return nil
}

// Balance reports a guest's current points and jewels.
// A guest with no account has a zero balance.
func (r *LoyaltyRepository) Balance(ctx context.Context, guestID string) (points, jewels int64, err error) {
	query := `SELECT points, jewels FROM loyalty_accounts WHERE guest_id = $1`

	err = r.pool.QueryRow(ctx, query, guestID).Scan(&points, &jewels)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("loyalty balance for guest %s: %w", guestID, err)
	}
	return points, jewels, nil
}
