package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// PeriodCache keeps the period-type table in memory. Rates are read on every
// booking but change a few times a year, so lookups never block on storage:
// the cache serves a snapshot and refreshes it explicitly, either on the
// scheduler's cadence or when an admin edits a period.
//
// When a refresh fails, the cache keeps serving the last good snapshot and
// flips Degraded so callers can surface it.
type PeriodCache struct {
	repo  domain.PeriodRepository
	clock domain.Clock
	ttl   time.Duration

	mu        sync.RWMutex
	byCode    map[string]domain.PeriodType
	ordered   []domain.PeriodType
	loadedAt  time.Time
	refreshed bool
}

// NewPeriodCache builds an empty cache. Call Refresh once at startup to
// warm it; Get on a never-loaded cache falls through to storage.
func NewPeriodCache(repo domain.PeriodRepository, clock domain.Clock, ttl time.Duration) *PeriodCache {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PeriodCache{
		repo:   repo,
		clock:  clock,
		ttl:    ttl,
		byCode: make(map[string]domain.PeriodType),
	}
}

// Refresh reloads the snapshot from storage. On failure the previous
// snapshot stays in place and the cache reports itself degraded.
func (c *PeriodCache) Refresh(ctx context.Context) error {
	periods, err := c.repo.ListActive(ctx)
	if err != nil {
		c.mu.Lock()
		c.refreshed = false
		c.mu.Unlock()
		return fmt.Errorf("refreshing period cache: %w", err)
	}

	byCode := make(map[string]domain.PeriodType, len(periods))
	for _, p := range periods {
		byCode[normalizeCode(p.Code)] = p
	}

	c.mu.Lock()
	c.byCode = byCode
	c.ordered = periods
	c.loadedAt = c.clock.Now()
	c.refreshed = true
	c.mu.Unlock()
	return nil
}

// Get returns one period type by code. A cold cache loads itself first; a
// stale cache answers from the snapshot anyway and leaves refreshing to the
// scheduler, so a storage outage never blocks the booking path.
func (c *PeriodCache) Get(ctx context.Context, code string) (*domain.PeriodType, error) {
	key := normalizeCode(code)

	c.mu.RLock()
	p, ok := c.byCode[key]
	loaded := !c.loadedAt.IsZero()
	c.mu.RUnlock()

	if ok {
		return &p, nil
	}
	if loaded {
		return nil, domain.ErrPeriodNotFound
	}

	// Cold start: load once, then answer from the snapshot.
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.byCode[key]; ok {
		return &p, nil
	}
	return nil, domain.ErrPeriodNotFound
}

// List returns the cached active period types ordered by duration.
func (c *PeriodCache) List(ctx context.Context) ([]domain.PeriodType, error) {
	c.mu.RLock()
	loaded := !c.loadedAt.IsZero()
	snapshot := c.ordered
	c.mu.RUnlock()

	if loaded {
		return snapshot, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ordered, nil
}

// Degraded reports whether the snapshot is past its staleness bound or the
// last refresh failed. Responses built from a degraded cache carry a flag so
// the desk knows prices may lag.
func (c *PeriodCache) Degraded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.loadedAt.IsZero() {
		return true
	}
	if !c.refreshed {
		return true
	}
	return c.clock.Now().Sub(c.loadedAt) > c.ttl
}

// LastRefresh returns when the snapshot was last loaded.
func (c *PeriodCache) LastRefresh() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Size returns the number of cached period types.
func (c *PeriodCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byCode)
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
