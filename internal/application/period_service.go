package application

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// PeriodService manages the rate table. Writes go to storage and then bump
// the cache, so the booking path sees new prices immediately.
type PeriodService struct {
	periods domain.PeriodRepository
	cache   *PeriodCache
	clock   domain.Clock
	timeout time.Duration
}

// NewPeriodService wires the period service.
func NewPeriodService(periods domain.PeriodRepository, cache *PeriodCache, clock domain.Clock, timeout time.Duration) *PeriodService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PeriodService{periods: periods, cache: cache, clock: clock, timeout: timeout}
}

// List returns the active period types from the cache.
func (s *PeriodService) List(ctx context.Context) ([]domain.PeriodType, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.cache.List(ctx)
}

// GetByCode returns one period type from the cache.
func (s *PeriodService) GetByCode(ctx context.Context, code string) (*domain.PeriodType, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.cache.Get(ctx, code)
}

// Create stores a new period type and refreshes the cache.
func (s *PeriodService) Create(ctx context.Context, p *domain.PeriodType) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p.Code = strings.ToLower(strings.TrimSpace(p.Code))
	if p.Code == "" {
		return domain.NewValidationError("period code is required")
	}
	if p.Duration <= 0 {
		return domain.NewValidationError("period duration must be positive")
	}
	if p.BasePrice < 0 {
		return domain.NewValidationError("period price cannot be negative")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := s.clock.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Active = true

	if err := s.periods.Create(ctx, p); err != nil {
		return fmt.Errorf("creating period %s: %w", p.Code, err)
	}
	s.refreshCache(ctx)
	return nil
}

// Update rewrites a period type and refreshes the cache.
func (s *PeriodService) Update(ctx context.Context, p *domain.PeriodType) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if p.Duration <= 0 {
		return domain.NewValidationError("period duration must be positive")
	}
	if p.BasePrice < 0 {
		return domain.NewValidationError("period price cannot be negative")
	}
	p.UpdatedAt = s.clock.Now()
	if err := s.periods.Update(ctx, p); err != nil {
		return fmt.Errorf("updating period %s: %w", p.Code, err)
	}
	s.refreshCache(ctx)
	return nil
}

// RefreshCache forces a reload and reports the cache state. Exposed as an
// endpoint so operators can bump prices without waiting for the scheduler.
func (s *PeriodService) RefreshCache(ctx context.Context) (lastRefresh time.Time, degraded bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.cache.Refresh(ctx); err != nil {
		return s.cache.LastRefresh(), s.cache.Degraded(), err
	}
	return s.cache.LastRefresh(), s.cache.Degraded(), nil
}

// refreshCache reloads after a write. The write already succeeded, so a
// refresh failure is logged and the stale snapshot stays marked degraded.
func (s *PeriodService) refreshCache(ctx context.Context) {
	if err := s.cache.Refresh(ctx); err != nil {
		log.Printf("period cache refresh after write failed: %v", err)
	}
}
