package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stayvilla/booking-pricing-system/internal/model"
)

// PropertyPoolInterface defines the database operations needed by PropertyRepository.
type PropertyPoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PropertyRepository provides data access for properties using pgx.
type PropertyRepository struct {
	pool PropertyPoolInterface
}

// NewPropertyRepository creates a new PropertyRepository with the given pool.
func NewPropertyRepository(pool *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

// NewPropertyRepositoryWithPool creates a new PropertyRepository with a custom pool interface.
// This is primarily used for testing.
func NewPropertyRepositoryWithPool(pool PropertyPoolInterface) *PropertyRepository {
	return &PropertyRepository{pool: pool}
}

// Insert inserts a new property into the catalog.
func (r *PropertyRepository) Insert(ctx context.Context, property *model.Property) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO properties (id, name, nightly_rate, currency) VALUES ($1, $2, $3, $4)`,
		property.ID, property.Name, property.NightlyRate, property.Currency)
	if err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

// GetByID retrieves a property by its id.
// Returns nil, nil if the property is not found (service layer handles this).
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*model.Property, error) {
	query := `SELECT id, name, nightly_rate, currency, created_at FROM properties WHERE id = $1`

	var property model.Property
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&property.ID,
		&property.Name,
		&property.NightlyRate,
		&property.Currency,
		&property.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get property by id %s: %w", id, err)
	}
	return &property, nil
}
