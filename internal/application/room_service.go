package application

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/events"
)

// RoomAvailability annotates one room with whether it is free for a range.
type RoomAvailability struct {
	Room domain.Room `json:"room"`
	Free bool        `json:"free"`
}

// RoomService owns the room inventory and manual status changes.
type RoomService struct {
	rooms        domain.RoomRepository
	reservations domain.ReservationRepository
	clock        domain.Clock
	publisher    *events.Publisher
	timeout      time.Duration
}

// NewRoomService wires the room service. publisher may be nil.
func NewRoomService(
	rooms domain.RoomRepository,
	reservations domain.ReservationRepository,
	clock domain.Clock,
	publisher *events.Publisher,
	timeout time.Duration,
) *RoomService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RoomService{
		rooms:        rooms,
		reservations: reservations,
		clock:        clock,
		publisher:    publisher,
		timeout:      timeout,
	}
}

// Create registers a new room, defaulting it to available.
func (s *RoomService) Create(ctx context.Context, room *domain.Room) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	room.Number = strings.TrimSpace(room.Number)
	if room.Number == "" {
		return domain.NewValidationError("room number is required")
	}
	if room.Category == "" {
		return domain.NewValidationError("room category is required")
	}
	if err := validateRoomFields(room); err != nil {
		return err
	}
	if room.Status == "" {
		room.Status = domain.RoomStatusAvailable
	}
	if !domain.ValidRoomStatus(room.Status) {
		return domain.NewValidationError("unknown room status %q", room.Status)
	}
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := s.clock.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	if err := s.rooms.Create(ctx, room); err != nil {
		return fmt.Errorf("creating room %s: %w", room.Number, err)
	}
	return nil
}

// GetByID fetches one room.
func (s *RoomService) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.rooms.GetByID(ctx, id)
}

// List returns rooms, optionally filtered by status.
func (s *RoomService) List(ctx context.Context, status domain.RoomStatus) ([]domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if status != "" && !domain.ValidRoomStatus(status) {
		return nil, domain.NewValidationError("unknown room status %q", status)
	}
	return s.rooms.List(ctx, status)
}

// Availability returns every room annotated with whether it is free over
// the given range.
func (s *RoomService) Availability(ctx context.Context, from, to time.Time) ([]RoomAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ival, err := domain.NewInterval(from, to)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	busy, err := s.reservations.BusyRoomIDs(ctx, ival, domain.BlockingStatuses())
	if err != nil {
		return nil, fmt.Errorf("listing busy rooms: %w", err)
	}

	board := make([]RoomAvailability, 0, len(rooms))
	for _, r := range rooms {
		board = append(board, RoomAvailability{
			Room: r,
			Free: r.Status.BookableNow() && !busy[r.ID],
		})
	}
	return board, nil
}

// Update rewrites a room's descriptive fields. Status changes go through
// ChangeStatus so the event side effects fire.
func (s *RoomService) Update(ctx context.Context, room *domain.Room) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := validateRoomFields(room); err != nil {
		return err
	}
	current, err := s.rooms.GetByID(ctx, room.ID)
	if err != nil {
		return err
	}
	room.Status = current.Status
	room.CreatedAt = current.CreatedAt
	room.UpdatedAt = s.clock.Now()
	if err := s.rooms.Update(ctx, room); err != nil {
		return fmt.Errorf("updating room %s: %w", room.Number, err)
	}
	return nil
}

// ChangeStatus sets a room's operational status by hand (maintenance,
// blocked, back to available).
func (s *RoomService) ChangeStatus(ctx context.Context, id string, status domain.RoomStatus) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if !domain.ValidRoomStatus(status) {
		return nil, domain.NewValidationError("unknown room status %q", status)
	}
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("updating room %s status: %w", room.Number, err)
	}
	room.Status = status
	room.UpdatedAt = s.clock.Now()
	s.publishRoom(ctx, domain.EventRoomStatusChanged, room)
	return room, nil
}

// MarkCleaned is housekeeping's turnover action: a cleaning room returns to
// circulation.
func (s *RoomService) MarkCleaned(ctx context.Context, id string) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.Status != domain.RoomStatusCleaning {
		return nil, domain.NewValidationError("room %s is %s, only cleaning rooms can be marked cleaned", room.Number, room.Status)
	}
	if err := s.rooms.UpdateStatus(ctx, id, domain.RoomStatusAvailable); err != nil {
		return nil, fmt.Errorf("marking room %s cleaned: %w", room.Number, err)
	}
	room.Status = domain.RoomStatusAvailable
	room.UpdatedAt = s.clock.Now()
	s.publishRoom(ctx, domain.EventRoomCleaned, room)
	return room, nil
}

// Delete removes a room that has no active reservations.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.rooms.Delete(ctx, id)
}

// publishRoom sends a room event, logging instead of failing: the status
// change is already stored and the queue is best-effort.
func (s *RoomService) publishRoom(ctx context.Context, event domain.LifecycleEvent, room *domain.Room) {
	if s.publisher == nil {
		return
	}
	msg := events.LifecycleMessage{
		Event:      event,
		RoomID:     room.ID,
		RoomNumber: room.Number,
		RoomStatus: room.Status,
		OccurredAt: s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		log.Printf("publishing %s for room %s failed: %v", event, room.Number, err)
	}
}

func validateRoomFields(room *domain.Room) error {
	if room.Capacity < 0 {
		return domain.NewValidationError("room capacity must not be negative")
	}
	for code, price := range room.Rates {
		if price < 0 {
			return domain.NewValidationError("room rate for period %q must not be negative", code)
		}
	}
	return nil
}
