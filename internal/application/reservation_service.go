package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/email"
	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/events"
)

// CreateReservationInput is everything the desk submits for a new booking.
// Either GuestID or the inline guest fields must identify the guest; when
// both are present the inline fields win for the snapshot. RoomID may be
// empty; the first bookable conflict-free room is then assigned.
type CreateReservationInput struct {
	RoomID     string
	GuestID    string
	GuestName  string
	GuestPhone string
	GuestEmail string
	GuestDoc   string
	PeriodCode string
	CheckIn    time.Time
	// CheckOut may be zero; it is then derived from the period length.
	CheckOut time.Time
	Source   domain.ReservationSource
	Notes    string
	// PriceOverride replaces the computed total when the desk negotiates a
	// different amount. The room's period rate is still recorded as the
	// base price.
	PriceOverride *float64
	PaymentMethod domain.PaymentMethod
	// AllowSubstitute lets the service move the booking to a free room of
	// the same category instead of rejecting. Defaults to true at the
	// HTTP boundary.
	AllowSubstitute bool
	CreatedBy       string
}

// UpdateReservationInput carries an edit to a booking that has not started.
// Zero values keep the stored field.
type UpdateReservationInput struct {
	RoomID        string
	PeriodCode    string
	CheckIn       time.Time
	CheckOut      time.Time
	Notes         *string
	PriceOverride *float64
}

// CreateReservationResult reports the stored reservation plus whether the
// desk's requested room had to be swapped.
type CreateReservationResult struct {
	Reservation     *domain.Reservation `json:"reservation"`
	RoomChanged     bool                `json:"roomChanged"`
	RequestedRoom   string              `json:"requestedRoom,omitempty"`
	PricingDegraded bool                `json:"pricingDegraded,omitempty"`
}

// ConflictReport is the dry-run answer: what blocks the range, how many
// active reservations were checked and where the booking could go instead.
type ConflictReport struct {
	HasConflict  bool                `json:"hasConflict"`
	Conflicts    []domain.Conflict   `json:"conflicts"`
	Considered   int                 `json:"considered"`
	Alternatives []domain.RoomOption `json:"alternatives"`
}

// ReservationService owns the booking lifecycle: conflict detection,
// room substitution, status transitions and the room-status side effects.
type ReservationService struct {
	reservations domain.ReservationRepository
	rooms        domain.RoomRepository
	orders       domain.OrderRepository
	guests       domain.GuestRepository
	periods      *PeriodCache
	locks        *RoomLocks
	policy       StatusPolicy
	numbers      NumberGenerator
	clock        domain.Clock
	emailClient  *email.Client
	publisher    *events.Publisher

	// failOpen admits bookings when the conflict query itself errors.
	// Off by default: an unverifiable booking is rejected.
	failOpen    bool
	timeout     time.Duration
	noShowGrace time.Duration
}

// NewReservationService wires the orchestrator. emailClient and publisher
// may be nil; those side effects are then skipped.
func NewReservationService(
	reservations domain.ReservationRepository,
	rooms domain.RoomRepository,
	orders domain.OrderRepository,
	guests domain.GuestRepository,
	periods *PeriodCache,
	locks *RoomLocks,
	policy StatusPolicy,
	numbers NumberGenerator,
	clock domain.Clock,
	emailClient *email.Client,
	publisher *events.Publisher,
	failOpen bool,
	timeout time.Duration,
	noShowGrace time.Duration,
) *ReservationService {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if numbers == nil {
		numbers = UUIDNumberGenerator{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if noShowGrace <= 0 {
		noShowGrace = 2 * time.Hour
	}
	return &ReservationService{
		reservations: reservations,
		rooms:        rooms,
		orders:       orders,
		guests:       guests,
		periods:      periods,
		locks:        locks,
		policy:       policy,
		numbers:      numbers,
		clock:        clock,
		emailClient:  emailClient,
		publisher:    publisher,
		failOpen:     failOpen,
		timeout:      timeout,
		noShowGrace:  noShowGrace,
	}
}

// Create books a room. When the requested room is taken it substitutes a
// free room of the same category, or fails with a ConflictError carrying
// the collisions and every bookable alternative.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*CreateReservationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if in.PriceOverride != nil && *in.PriceOverride <= 0 {
		return nil, domain.NewValidationError("price override must be positive")
	}
	if in.PaymentMethod != "" && !domain.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.NewValidationError("unknown payment method %q", in.PaymentMethod)
	}

	// 1. Resolve the period and the interval.
	period, err := s.periods.Get(ctx, in.PeriodCode)
	if err != nil {
		if errors.Is(err, domain.ErrPeriodNotFound) {
			return nil, domain.NewValidationError("unknown period code %q", in.PeriodCode)
		}
		return nil, err
	}
	checkOut := in.CheckOut
	if checkOut.IsZero() {
		checkOut = in.CheckIn.Add(period.Length())
	}
	ival, err := domain.NewInterval(in.CheckIn, checkOut)
	if err != nil {
		return nil, err
	}

	// 2. Resolve the guest snapshot.
	snapshot, err := s.resolveGuest(ctx, in)
	if err != nil {
		return nil, err
	}

	// 3. Resolve the target room: the requested one, or the first bookable
	// conflict-free room when the desk left the choice open.
	var room *domain.Room
	requestedNumber := ""
	if in.RoomID != "" {
		room, err = s.rooms.GetByID(ctx, in.RoomID)
		if err != nil {
			return nil, err
		}
		requestedNumber = room.Number
	} else {
		room, err = s.firstFreeRoom(ctx, ival)
		if err != nil {
			return nil, err
		}
	}

	// 4. Check for conflicts under the room's lock, substituting if needed.
	unlock := s.locks.Lock(room.ID)
	conflicts, err := s.conflictsFor(ctx, room.ID, ival, "")
	if err != nil {
		unlock()
		return nil, err
	}

	roomChanged := false
	if len(conflicts) > 0 {
		unlock()

		alternatives, altErr := s.FindAlternativeRooms(ctx, room, ival)
		if altErr != nil {
			return nil, altErr
		}

		substitute := pickSameCategory(alternatives)
		if !in.AllowSubstitute || substitute == nil {
			return nil, &domain.ConflictError{
				RoomNumber:     room.Number,
				Conflicts:      conflicts,
				SuggestedRooms: alternatives,
			}
		}

		// Re-check the substitute under its own lock; another request may
		// have grabbed it between the list query and here.
		subRoom, err := s.rooms.GetByID(ctx, substitute.RoomID)
		if err != nil {
			return nil, err
		}
		unlock = s.locks.Lock(subRoom.ID)
		subConflicts, err := s.conflictsFor(ctx, subRoom.ID, ival, "")
		if err != nil {
			unlock()
			return nil, err
		}
		if len(subConflicts) > 0 {
			unlock()
			return nil, &domain.ConflictError{
				RoomNumber:     room.Number,
				Conflicts:      conflicts,
				SuggestedRooms: dropOption(alternatives, subRoom.ID),
			}
		}
		room = subRoom
		roomChanged = true
	}
	defer unlock()

	// 5. Price against the final room's rate table, then build the row.
	price := room.RateFor(period.Code, period.BasePrice)
	total := price
	if in.PriceOverride != nil {
		total = *in.PriceOverride
	}

	now := s.clock.Now()
	res := &domain.Reservation{
		ID:            uuid.NewString(),
		Number:        s.numbers.NewReservationNumber(now),
		RoomID:        room.ID,
		RoomNumber:    room.Number,
		GuestID:       snapshot.ID,
		GuestName:     snapshot.Name,
		GuestPhone:    snapshot.Phone,
		GuestEmail:    snapshot.Email,
		GuestDoc:      snapshot.Document,
		PeriodCode:    period.Code,
		CheckIn:       ival.Start,
		CheckOut:      ival.End,
		Status:        domain.ReservationStatusConfirmed,
		Source:        sourceOrDefault(in.Source),
		PeriodPrice:   price,
		TotalAmount:   total,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: domain.PaymentStatusPending,
		Notes:         in.Notes,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 6. Persist, regenerating the number once on a uniqueness collision.
	if err := s.reservations.Create(ctx, res); err != nil {
		if !errors.Is(err, domain.ErrDuplicateNumber) {
			return nil, fmt.Errorf("creating reservation: %w", err)
		}
		res.Number = s.numbers.NewReservationNumber(now)
		if err := s.reservations.Create(ctx, res); err != nil {
			return nil, fmt.Errorf("creating reservation after number retry: %w", err)
		}
	}

	// 7. Reconcile room status, then fire the side effects.
	if target, ok := s.policy.TargetRoomStatus(domain.EventReservationCreated, now, res.CheckIn); ok {
		if err := s.rooms.UpdateStatus(ctx, room.ID, target); err != nil {
			log.Printf("reservation %s stored but room %s status update failed: %v", res.Number, room.Number, err)
		}
	}
	s.publish(ctx, domain.EventReservationCreated, res)
	s.sendConfirmationEmail(res)

	return &CreateReservationResult{
		Reservation:     res,
		RoomChanged:     roomChanged,
		RequestedRoom:   requestedNumber,
		PricingDegraded: s.periods.Degraded(),
	}, nil
}

// Update edits a booking that has not started: dates, period, room and
// notes. The conflict re-check excludes the reservation itself so an
// unchanged range does not collide with its own row. Unlike Create, an edit
// never substitutes rooms silently; a conflict comes back as a 409 with
// suggestions and the desk decides.
func (s *ReservationService) Update(ctx context.Context, id string, in UpdateReservationInput) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if in.PriceOverride != nil && *in.PriceOverride <= 0 {
		return nil, domain.NewValidationError("price override must be positive")
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != domain.ReservationStatusPending && res.Status != domain.ReservationStatusConfirmed {
		return nil, domain.NewValidationError("reservation %s is %s and can no longer be edited", res.Number, res.Status)
	}

	code := res.PeriodCode
	if in.PeriodCode != "" {
		code = in.PeriodCode
	}
	period, err := s.periods.Get(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrPeriodNotFound) {
			return nil, domain.NewValidationError("unknown period code %q", code)
		}
		return nil, err
	}

	checkIn := res.CheckIn
	if !in.CheckIn.IsZero() {
		checkIn = in.CheckIn
	}
	checkOut := res.CheckOut
	if !in.CheckOut.IsZero() {
		checkOut = in.CheckOut
	} else if !in.CheckIn.IsZero() {
		checkOut = checkIn.Add(period.Length())
	}
	ival, err := domain.NewInterval(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	roomID := res.RoomID
	if in.RoomID != "" {
		roomID = in.RoomID
	}
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	moved := room.ID != res.RoomID

	unlock := s.locks.Lock(room.ID)
	defer unlock()
	conflicts, err := s.conflictsFor(ctx, room.ID, ival, res.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		alternatives, altErr := s.FindAlternativeRooms(ctx, room, ival)
		if altErr != nil {
			return nil, altErr
		}
		return nil, &domain.ConflictError{
			RoomNumber:     room.Number,
			Conflicts:      conflicts,
			SuggestedRooms: alternatives,
		}
	}

	price := room.RateFor(period.Code, period.BasePrice)
	total := price + res.ExtrasTotal
	if in.PriceOverride != nil {
		total = *in.PriceOverride
	}

	oldRoomID := res.RoomID
	now := s.clock.Now()
	res.RoomID = room.ID
	res.RoomNumber = room.Number
	res.PeriodCode = period.Code
	res.CheckIn = ival.Start
	res.CheckOut = ival.End
	res.PeriodPrice = price
	res.TotalAmount = total
	if in.Notes != nil {
		res.Notes = *in.Notes
	}
	res.UpdatedAt = now

	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, fmt.Errorf("updating reservation %s: %w", res.Number, err)
	}

	// A move frees the old room and may pre-block the new one, same rules
	// as a fresh booking.
	if moved && res.Status.Blocking() {
		if err := s.rooms.UpdateStatus(ctx, oldRoomID, domain.RoomStatusAvailable); err != nil {
			log.Printf("reservation %s moved but old room release failed: %v", res.Number, err)
		}
		if target, ok := s.policy.TargetRoomStatus(domain.EventReservationCreated, now, res.CheckIn); ok {
			if err := s.rooms.UpdateStatus(ctx, room.ID, target); err != nil {
				log.Printf("reservation %s moved but room %s status update failed: %v", res.Number, room.Number, err)
			}
		}
	}
	s.publish(ctx, domain.EventReservationUpdated, res)
	return res, nil
}

// RecordPayment stores how and whether the stay was settled. Cancelled
// reservations reject new payment records; a checked-out stay may still be
// settled after the fact.
func (s *ReservationService) RecordPayment(ctx context.Context, id string, method domain.PaymentMethod, status domain.PaymentStatus) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if !domain.ValidPaymentMethod(method) {
		return nil, domain.NewValidationError("unknown payment method %q", method)
	}
	if !domain.ValidPaymentStatus(status) {
		return nil, domain.NewValidationError("unknown payment status %q", status)
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status == domain.ReservationStatusCancelled && status != domain.PaymentStatusRefunded {
		return nil, domain.NewValidationError("reservation %s is cancelled, only refunds can be recorded", res.Number)
	}

	res.PaymentMethod = method
	res.PaymentStatus = status
	res.UpdatedAt = s.clock.Now()
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, fmt.Errorf("recording payment for %s: %w", res.Number, err)
	}
	return res, nil
}

// CheckConflicts is the read-only dry run of the availability check.
// excludeID skips one reservation, for re-checking a booking being edited.
// The dry run never applies the fail-open policy: a desk asking "is this
// free?" should see the storage error, not a guess.
func (s *ReservationService) CheckConflicts(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (*ConflictReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ival, err := domain.NewInterval(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	existing, err := s.reservations.ListOverlapping(ctx, room.ID, ival, domain.BlockingStatuses())
	if err != nil {
		return nil, fmt.Errorf("checking conflicts for room %s: %w", room.Number, err)
	}
	conflicts := toConflicts(ival, existing, excludeID)
	report := &ConflictReport{
		HasConflict:  len(conflicts) > 0,
		Conflicts:    conflicts,
		Considered:   len(existing),
		Alternatives: []domain.RoomOption{},
	}
	if len(conflicts) > 0 {
		alternatives, err := s.FindAlternativeRooms(ctx, room, ival)
		if err != nil {
			return nil, err
		}
		report.Alternatives = alternatives
	}
	return report, nil
}

// FindAlternativeRooms lists rooms that could absorb the booking: bookable
// status, no blocking reservation in the interval, the requested room
// excluded. Results keep the repository's ascending room-number order, with
// same-category rooms flagged.
func (s *ReservationService) FindAlternativeRooms(ctx context.Context, requested *domain.Room, ival domain.Interval) ([]domain.RoomOption, error) {
	rooms, err := s.rooms.ListBookable(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bookable rooms: %w", err)
	}
	busy, err := s.reservations.BusyRoomIDs(ctx, ival, domain.BlockingStatuses())
	if err != nil {
		return nil, fmt.Errorf("listing busy rooms: %w", err)
	}

	options := make([]domain.RoomOption, 0, len(rooms))
	for _, r := range rooms {
		if r.ID == requested.ID || busy[r.ID] {
			continue
		}
		options = append(options, domain.RoomOption{
			RoomID:        r.ID,
			Number:        r.Number,
			Category:      r.Category,
			Status:        r.Status,
			CategoryMatch: r.Category == requested.Category,
		})
	}
	return options, nil
}

// ChangeStatus moves a reservation through its lifecycle, stamping times,
// settling extras at check-out and reconciling the room.
func (s *ReservationService) ChangeStatus(ctx context.Context, id string, to domain.ReservationStatus) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if !domain.ValidReservationStatus(to) {
		return nil, domain.NewValidationError("unknown reservation status %q", to)
	}

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := res.Status
	if !domain.CanTransition(from, to) {
		return nil, &domain.TransitionError{From: from, To: to}
	}

	now := s.clock.Now()
	var event domain.LifecycleEvent
	switch to {
	case domain.ReservationStatusConfirmed:
		event = domain.EventReservationConfirmed
	case domain.ReservationStatusCheckedIn:
		res.CheckedInAt = &now
		event = domain.EventReservationCheckedIn
	case domain.ReservationStatusCheckedOut:
		res.CheckedOutAt = &now
		event = domain.EventReservationCheckedOut
		extras, err := s.orders.SumExtras(ctx, res.ID)
		if err != nil {
			return nil, fmt.Errorf("settling extras for %s: %w", res.Number, err)
		}
		res.ExtrasTotal = extras
		res.TotalAmount = res.PeriodPrice + extras
	case domain.ReservationStatusCancelled:
		res.CancelledAt = &now
		event = domain.EventReservationCancelled
	}

	res.Status = to
	res.UpdatedAt = now
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, fmt.Errorf("updating reservation %s: %w", res.Number, err)
	}

	s.reconcileRoom(ctx, res, event, from, now)
	s.publish(ctx, event, res)
	return res, nil
}

// Confirm moves a pending reservation to confirmed.
func (s *ReservationService) Confirm(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.ChangeStatus(ctx, id, domain.ReservationStatusConfirmed)
}

// CheckIn marks the guest as arrived.
func (s *ReservationService) CheckIn(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.ChangeStatus(ctx, id, domain.ReservationStatusCheckedIn)
}

// CheckOut settles and closes the stay.
func (s *ReservationService) CheckOut(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.ChangeStatus(ctx, id, domain.ReservationStatusCheckedOut)
}

// Cancel aborts a reservation that has not checked out.
func (s *ReservationService) Cancel(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.ChangeStatus(ctx, id, domain.ReservationStatusCancelled)
}

// GetByID fetches one reservation.
func (s *ReservationService) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.reservations.GetByID(ctx, id)
}

// GetByNumber fetches one reservation by business number.
func (s *ReservationService) GetByNumber(ctx context.Context, number string) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.reservations.GetByNumber(ctx, number)
}

// List returns reservations matching the filter.
func (s *ReservationService) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.reservations.List(ctx, filter)
}

// ReleaseNoShows cancels confirmed reservations whose check-in lapsed past
// the grace period. The scheduler runs it; it returns how many it released.
func (s *ReservationService) ReleaseNoShows(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cutoff := s.clock.Now().Add(-s.noShowGrace)
	candidates, err := s.reservations.ListNoShowCandidates(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("listing no-show candidates: %w", err)
	}

	released := 0
	for i := range candidates {
		res := &candidates[i]
		if _, err := s.ChangeStatus(ctx, res.ID, domain.ReservationStatusCancelled); err != nil {
			log.Printf("no-show release failed for %s: %v", res.Number, err)
			continue
		}
		released++
	}
	return released, nil
}

// conflictsFor runs the blocking-overlap query, applying the fail-open
// policy on storage errors. excludeID skips one reservation so an edit does
// not collide with itself.
func (s *ReservationService) conflictsFor(ctx context.Context, roomID string, ival domain.Interval, excludeID string) ([]domain.Conflict, error) {
	existing, err := s.reservations.ListOverlapping(ctx, roomID, ival, domain.BlockingStatuses())
	if err != nil {
		if s.failOpen {
			log.Printf("conflict check failed for room %s, fail-open admits the booking: %v", roomID, err)
			return nil, nil
		}
		return nil, fmt.Errorf("checking conflicts: %w", err)
	}
	return toConflicts(ival, existing, excludeID), nil
}

// firstFreeRoom assigns a booking that named no room: the lowest-numbered
// bookable room with no blocking reservation in the interval. When every
// room is taken the caller gets a conflict with nothing to suggest.
func (s *ReservationService) firstFreeRoom(ctx context.Context, ival domain.Interval) (*domain.Room, error) {
	rooms, err := s.rooms.ListBookable(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bookable rooms: %w", err)
	}
	busy, err := s.reservations.BusyRoomIDs(ctx, ival, domain.BlockingStatuses())
	if err != nil {
		return nil, fmt.Errorf("listing busy rooms: %w", err)
	}
	for i := range rooms {
		if !busy[rooms[i].ID] {
			return &rooms[i], nil
		}
	}
	return nil, &domain.ConflictError{
		Conflicts:      []domain.Conflict{},
		SuggestedRooms: []domain.RoomOption{},
	}
}

// reconcileRoom applies the event's room-status effect. A cancellation only
// frees the room when the cancelled reservation was actually holding it.
func (s *ReservationService) reconcileRoom(ctx context.Context, res *domain.Reservation, event domain.LifecycleEvent, from domain.ReservationStatus, now time.Time) {
	if event == domain.EventReservationCancelled && !from.Blocking() {
		return
	}
	target, ok := s.policy.TargetRoomStatus(event, now, res.CheckIn)
	if !ok {
		return
	}
	if err := s.rooms.UpdateStatus(ctx, res.RoomID, target); err != nil {
		log.Printf("room %s status update to %s failed after %s: %v", res.RoomNumber, target, event, err)
	}
}

func (s *ReservationService) resolveGuest(ctx context.Context, in CreateReservationInput) (*domain.Guest, error) {
	snapshot := &domain.Guest{
		ID:       in.GuestID,
		Name:     in.GuestName,
		Phone:    in.GuestPhone,
		Email:    in.GuestEmail,
		Document: in.GuestDoc,
	}
	if in.GuestID != "" {
		stored, err := s.guests.GetByID(ctx, in.GuestID)
		if err != nil {
			return nil, err
		}
		if stored.Blocked {
			return nil, domain.NewValidationError("guest %s is blocked", stored.Name)
		}
		if snapshot.Name == "" {
			snapshot.Name = stored.Name
		}
		if snapshot.Phone == "" {
			snapshot.Phone = stored.Phone
		}
		if snapshot.Email == "" {
			snapshot.Email = stored.Email
		}
		if snapshot.Document == "" {
			snapshot.Document = stored.Document
		}
	}
	if snapshot.Name == "" {
		return nil, domain.NewValidationError("guest name is required")
	}
	return snapshot, nil
}

// publish sends the lifecycle event, logging instead of failing: the
// reservation is already stored and the queue is best-effort.
func (s *ReservationService) publish(ctx context.Context, event domain.LifecycleEvent, res *domain.Reservation) {
	if s.publisher == nil {
		return
	}
	msg := events.LifecycleMessage{
		Event:         event,
		ReservationID: res.ID,
		Number:        res.Number,
		RoomID:        res.RoomID,
		RoomNumber:    res.RoomNumber,
		Status:        res.Status,
		OccurredAt:    s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		log.Printf("publishing %s for %s failed: %v", event, res.Number, err)
	}
}

// sendConfirmationEmail mails the guest when an address is on file. Failures
// are logged, never returned: the booking stands either way.
func (s *ReservationService) sendConfirmationEmail(res *domain.Reservation) {
	if s.emailClient == nil || res.GuestEmail == "" {
		return
	}
	subject := fmt.Sprintf("Booking %s confirmed", res.Number)
	body := email.ConfirmationBody(res.GuestName, res.Number, res.RoomNumber, res.CheckIn, res.CheckOut, res.TotalAmount)
	if err := s.emailClient.SendEmail(res.GuestEmail, subject, body); err != nil {
		log.Printf("confirmation email for %s failed: %v", res.Number, err)
	}
}

func sourceOrDefault(src domain.ReservationSource) domain.ReservationSource {
	if src == "" {
		return domain.SourceFrontDesk
	}
	return src
}

func pickSameCategory(options []domain.RoomOption) *domain.RoomOption {
	for i := range options {
		if options[i].CategoryMatch {
			return &options[i]
		}
	}
	return nil
}

func dropOption(options []domain.RoomOption, roomID string) []domain.RoomOption {
	kept := make([]domain.RoomOption, 0, len(options))
	for _, o := range options {
		if o.RoomID != roomID {
			kept = append(kept, o)
		}
	}
	return kept
}

func toConflicts(requested domain.Interval, reservations []domain.Reservation, excludeID string) []domain.Conflict {
	conflicts := make([]domain.Conflict, 0, len(reservations))
	for _, r := range reservations {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		overlap, _ := requested.Intersect(r.Interval())
		conflicts = append(conflicts, domain.Conflict{
			ReservationID: r.ID,
			Number:        r.Number,
			Status:        r.Status,
			GuestName:     r.GuestName,
			CheckIn:       r.CheckIn,
			CheckOut:      r.CheckOut,
			Overlap:       overlap,
		})
	}
	return conflicts
}
