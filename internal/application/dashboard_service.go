package application

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardService assembles the front-desk overview. The board is polled
// by every open desk screen, so the assembled summary is cached briefly:
// in process always, and in Redis when a client is wired so multiple
// instances share one build.
type DashboardService struct {
	repo    domain.DashboardRepository
	rdb     *redis.Client
	clock   domain.Clock
	ttl     time.Duration
	timeout time.Duration

	mu       sync.RWMutex
	cached   *domain.DashboardSummary
	cachedAt time.Time
}

// NewDashboardService wires the dashboard service. rdb may be nil; the
// summary is then cached in process only.
func NewDashboardService(repo domain.DashboardRepository, rdb *redis.Client, clock domain.Clock, ttl, timeout time.Duration) *DashboardService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DashboardService{repo: repo, rdb: rdb, clock: clock, ttl: ttl, timeout: timeout}
}

// Summary returns the overview, served from cache while fresh.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	now := s.clock.Now()

	s.mu.RLock()
	if s.cached != nil && now.Sub(s.cachedAt) < s.ttl {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if summary := s.fromRedis(ctx); summary != nil {
		s.remember(summary, now)
		return summary, nil
	}

	summary, err := s.build(ctx, now)
	if err != nil {
		return nil, err
	}
	s.remember(summary, now)
	s.toRedis(ctx, summary)
	return summary, nil
}

func (s *DashboardService) build(ctx context.Context, now time.Time) (*domain.DashboardSummary, error) {
	rooms, err := s.repo.RoomCounts(ctx)
	if err != nil {
		return nil, err
	}
	arrivals, inHouse, departures, err := s.repo.ReservationCounts(ctx, now)
	if err != nil {
		return nil, err
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	revenue, err := s.repo.RevenueSince(ctx, dayStart)
	if err != nil {
		return nil, err
	}
	openOrders, err := s.repo.OpenOrderCount(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardSummary{
		Rooms:          rooms,
		ArrivalsToday:  arrivals,
		InHouse:        inHouse,
		DeparturesLeft: departures,
		RevenueToday:   revenue,
		OpenOrders:     openOrders,
		GeneratedAt:    now,
	}, nil
}

func (s *DashboardService) remember(summary *domain.DashboardSummary, at time.Time) {
	s.mu.Lock()
	s.cached = summary
	s.cachedAt = at
	s.mu.Unlock()
}

// fromRedis returns the shared summary, or nil on a miss. Redis failures
// fall through to a fresh build; the cache is best-effort.
func (s *DashboardService) fromRedis(ctx context.Context) *domain.DashboardSummary {
	if s.rdb == nil {
		return nil
	}
	payload, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("dashboard cache read failed: %v", err)
		}
		return nil
	}
	var summary domain.DashboardSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		log.Printf("dashboard cache decode failed: %v", err)
		return nil
	}
	return &summary
}

func (s *DashboardService) toRedis(ctx context.Context, summary *domain.DashboardSummary) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, dashboardCacheKey, payload, s.ttl).Err(); err != nil {
		log.Printf("dashboard cache write failed: %v", err)
	}
}
