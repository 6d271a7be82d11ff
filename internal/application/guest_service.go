package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// GuestService manages the guest registry.
type GuestService struct {
	guests       domain.GuestRepository
	reservations domain.ReservationRepository
	clock        domain.Clock
	timeout      time.Duration
}

// NewGuestService wires the guest service.
func NewGuestService(guests domain.GuestRepository, reservations domain.ReservationRepository, clock domain.Clock, timeout time.Duration) *GuestService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GuestService{guests: guests, reservations: reservations, clock: clock, timeout: timeout}
}

// Create registers a guest.
func (s *GuestService) Create(ctx context.Context, g *domain.Guest) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return domain.NewValidationError("guest name is required")
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := s.clock.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := s.guests.Create(ctx, g); err != nil {
		return fmt.Errorf("creating guest %s: %w", g.Name, err)
	}
	return nil
}

// GetByID fetches one guest.
func (s *GuestService) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.guests.GetByID(ctx, id)
}

// Search finds guests by name, phone or document.
func (s *GuestService) Search(ctx context.Context, term string, limit int) ([]domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.guests.Search(ctx, strings.TrimSpace(term), limit)
}

// Update rewrites a guest's fields.
func (s *GuestService) Update(ctx context.Context, g *domain.Guest) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return domain.NewValidationError("guest name is required")
	}
	g.UpdatedAt = s.clock.Now()
	if err := s.guests.Update(ctx, g); err != nil {
		return fmt.Errorf("updating guest %s: %w", g.Name, err)
	}
	return nil
}

// History lists a guest's reservations, newest first.
func (s *GuestService) History(ctx context.Context, guestID string, limit int) ([]domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.guests.GetByID(ctx, guestID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.reservations.List(ctx, domain.ReservationFilter{GuestID: guestID, Limit: limit})
}

// Delete removes a guest. Past reservations keep their snapshots.
func (s *GuestService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.guests.Delete(ctx, id)
}
