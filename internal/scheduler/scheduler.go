// Package scheduler runs the periodic maintenance jobs: releasing no-show
// reservations, refreshing the period cache and purging dead sessions.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/application"
)

// Scheduler wraps the gocron scheduler with the jobs this backend needs.
type Scheduler struct {
	inner gocron.Scheduler
}

// New registers the maintenance jobs. cacheRefresh defaults to ten minutes,
// noShowSweep to ten minutes as well.
func New(
	reservations *application.ReservationService,
	periods *application.PeriodCache,
	staff *application.StaffService,
	noShowSweep, cacheRefresh time.Duration,
) (*Scheduler, error) {
	if noShowSweep <= 0 {
		noShowSweep = 10 * time.Minute
	}
	if cacheRefresh <= 0 {
		cacheRefresh = 10 * time.Minute
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(noShowSweep),
		gocron.NewTask(func() {
			released, err := reservations.ReleaseNoShows(context.Background())
			if err != nil {
				log.Printf("scheduler: no-show sweep failed: %v", err)
				return
			}
			if released > 0 {
				log.Printf("scheduler: released %d no-show reservation(s)", released)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(cacheRefresh),
		gocron.NewTask(func() {
			if err := periods.Refresh(context.Background()); err != nil {
				log.Printf("scheduler: period cache refresh failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(func() {
			purged, err := staff.PurgeExpiredTokens(context.Background())
			if err != nil {
				log.Printf("scheduler: token purge failed: %v", err)
				return
			}
			if purged > 0 {
				log.Printf("scheduler: purged %d expired token(s)", purged)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	return &Scheduler{inner: s}, nil
}

// Start launches the jobs in the background.
func (s *Scheduler) Start() {
	s.inner.Start()
	log.Println("scheduler started")
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() {
	if err := s.inner.Shutdown(); err != nil {
		log.Printf("scheduler shutdown: %v", err)
	}
}
