package domain

import (
	"context"
	"time"
)

// PeriodType is a sellable stay length with its base price. Motel stays are
// sold by the block (4h, 6h, 12h, overnight, full day) rather than by night.
type PeriodType struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Duration  int       `json:"durationMinutes"`
	BasePrice float64   `json:"basePrice"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Length returns the period duration as a time.Duration.
func (p *PeriodType) Length() time.Duration {
	return time.Duration(p.Duration) * time.Minute
}

// PeriodRepository persists period types.
type PeriodRepository interface {
	// Create stores a new period type.
	Create(ctx context.Context, p *PeriodType) error
	// GetByCode fetches one period type or ErrPeriodNotFound.
	GetByCode(ctx context.Context, code string) (*PeriodType, error)
	// ListActive returns active period types ordered by duration.
	ListActive(ctx context.Context) ([]PeriodType, error)
	// Update rewrites mutable fields.
	Update(ctx context.Context, p *PeriodType) error
}
