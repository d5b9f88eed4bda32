package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayvilla/booking-pricing-system/internal/model"
	"github.com/stayvilla/booking-pricing-system/internal/pricing"
	"github.com/stayvilla/booking-pricing-system/internal/service"
)

// mockRow implements pgx.Row for testing QueryRow-based methods.
type mockRow struct {
	scanFn func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.scanFn != nil {
		return m.scanFn(dest...)
	}
	return nil
}

// mockPool implements PoolInterface (and the tx side used by IncrementUsage).
type mockPool struct {
	execFn     func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockPool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, arguments...)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &mockRow{}
}

func (m *mockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return nil, nil
}

func TestCouponRepository_Insert_Success(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any

	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupon := &model.Coupon{
		Code:          "SAVE10",
		DiscountType:  model.DiscountTypePercentage,
		DiscountValue: decimal.RequireFromString("10"),
		MaxUses:       100,
		Active:        true,
	}

	err := repo.Insert(context.Background(), coupon)

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "INSERT INTO coupons")
	assert.Equal(t, "SAVE10", capturedArgs[0])
	assert.Equal(t, model.DiscountTypePercentage, capturedArgs[1])
}

func TestCouponRepository_Insert_Duplicate(t *testing.T) {
	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			// Simulate PostgreSQL unique violation error (code 23505)
			return pgconn.CommandTag{}, &pgconn.PgError{
				Code:    "23505",
				Message: "duplicate key value violates unique constraint",
			}
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	err := repo.Insert(context.Background(), &model.Coupon{Code: "SAVE10"})

	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrCouponExists)
}

func TestCouponRepository_GetByCode_NotFound(t *testing.T) {
	mock := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	coupon, err := repo.GetByCode(context.Background(), "NONEXISTENT")

	require.NoError(t, err, "not found is nil, nil for the service layer")
	assert.Nil(t, coupon)
}

func TestCouponRepository_Deactivate(t *testing.T) {
	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	found, err := repo.Deactivate(context.Background(), "SAVE10")

	require.NoError(t, err)
	assert.True(t, found)
}

func TestCouponRepository_Deactivate_MissingCode(t *testing.T) {
	mock := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}

	repo := NewCouponRepositoryWithPool(mock)
	found, err := repo.Deactivate(context.Background(), "NONEXISTENT")

	require.NoError(t, err)
	assert.False(t, found)
}

func TestCouponRepository_IncrementUsage_Success(t *testing.T) {
	var capturedSQL string
	tx := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			capturedSQL = sql
			return &mockRow{scanFn: func(dest ...any) error {
				*(dest[0].(*int)) = 5
				return nil
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(nil)
	usedCount, err := repo.IncrementUsage(context.Background(), tx, "SAVE10")

	require.NoError(t, err)
	assert.Equal(t, 5, usedCount)
	// The cap check and the increment must be one conditional statement
	assert.Contains(t, capturedSQL, "used_count = used_count + 1")
	assert.Contains(t, capturedSQL, "max_uses = 0 OR used_count < max_uses")
	assert.Contains(t, capturedSQL, "RETURNING used_count")
}

func TestCouponRepository_IncrementUsage_CapExhausted(t *testing.T) {
	calls := 0
	tx := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			calls++
			if calls == 1 {
				// Conditional UPDATE matched no rows
				return &mockRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }}
			}
			// Existence check: the coupon is there, so the cap is exhausted
			return &mockRow{scanFn: func(dest ...any) error {
				*(dest[0].(*bool)) = true
				return nil
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(nil)
	_, err := repo.IncrementUsage(context.Background(), tx, "LIMITED")

	assert.ErrorIs(t, err, pricing.ErrUsageLimitReached)
}

func TestCouponRepository_IncrementUsage_MissingCoupon(t *testing.T) {
	calls := 0
	tx := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			calls++
			if calls == 1 {
				return &mockRow{scanFn: func(dest ...any) error { return pgx.ErrNoRows }}
			}
			return &mockRow{scanFn: func(dest ...any) error {
				*(dest[0].(*bool)) = false
				return nil
			}}
		},
	}

	repo := NewCouponRepositoryWithPool(nil)
	_, err := repo.IncrementUsage(context.Background(), tx, "NONEXISTENT")

	assert.ErrorIs(t, err, service.ErrCouponNotFound)
}

func TestCouponRepository_IncrementUsage_QueryError(t *testing.T) {
	dbErr := errors.New("connection reset")
	tx := &mockPool{
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &mockRow{scanFn: func(dest ...any) error { return dbErr }}
		},
	}

	repo := NewCouponRepositoryWithPool(nil)
	_, err := repo.IncrementUsage(context.Background(), tx, "SAVE10")

	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
}
