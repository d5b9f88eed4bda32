package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property is a rentable unit with a single nightly base rate.
// Seasonal rate calendars are out of scope.
type Property struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	NightlyRate decimal.Decimal `json:"nightly_rate"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"-"`
}

// CreatePropertyRequest is the DTO for registering a property.
type CreatePropertyRequest struct {
	Name        string          `json:"name" validate:"required,notblank,max=255"`
	NightlyRate decimal.Decimal `json:"nightly_rate"`
	Currency    string          `json:"currency" validate:"required,len=3,alpha"`
}
