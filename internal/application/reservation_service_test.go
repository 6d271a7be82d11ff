package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// bookingFixture wires a ReservationService over in-memory fakes: three
// rooms (101 and 102 standard, 201 suite), two period types and a fixed
// clock at 2025-06-10 14:00 UTC.
type bookingFixture struct {
	svc     *ReservationService
	rooms   *fakeRoomRepo
	resRepo *fakeReservationRepo
	guests  *fakeGuestRepo
	orders  *fakeOrderRepo
	periods *fakePeriodRepo
	clock   *fixedClock
}

func baseTime() time.Time {
	return time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
}

func newBookingFixture(t *testing.T, failOpen bool) *bookingFixture {
	t.Helper()

	clock := newFixedClock(baseTime())
	rooms := newFakeRoomRepo(
		domain.Room{ID: "room-101", Number: "101", Category: "standard", Status: domain.RoomStatusAvailable},
		domain.Room{ID: "room-102", Number: "102", Category: "standard", Status: domain.RoomStatusAvailable},
		domain.Room{ID: "room-201", Number: "201", Category: "suite", Status: domain.RoomStatusAvailable},
	)
	periods := &fakePeriodRepo{periods: []domain.PeriodType{
		{ID: "per-1", Code: "4h", Name: "4 hours", Duration: 240, BasePrice: 90, Active: true},
		{ID: "per-2", Code: "12h", Name: "12 hours", Duration: 720, BasePrice: 180, Active: true},
	}}
	cache := NewPeriodCache(periods, clock, 10*time.Minute)
	require.NoError(t, cache.Refresh(context.Background()))

	resRepo := newFakeReservationRepo()
	guests := newFakeGuestRepo()
	orders := newFakeOrderRepo()
	numbers := &seqNumbers{seq: []string{"RES-20250610-AAAAAA", "RES-20250610-BBBBBB", "RES-20250610-CCCCCC"}}

	svc := NewReservationService(
		resRepo, rooms, orders, guests, cache,
		NewRoomLocks(), NewStatusPolicy(2*time.Hour), numbers, clock,
		nil, nil, failOpen, 5*time.Second, 2*time.Hour,
	)
	return &bookingFixture{
		svc:     svc,
		rooms:   rooms,
		resRepo: resRepo,
		guests:  guests,
		orders:  orders,
		periods: periods,
		clock:   clock,
	}
}

// seed stores a reservation directly in the fake repository.
func (fx *bookingFixture) seed(t *testing.T, res domain.Reservation) {
	t.Helper()
	if res.Number == "" {
		res.Number = "RES-20250610-SEEDED"
	}
	fx.resRepo.byID[res.ID] = res
}

func walkIn(roomID string, checkIn time.Time) CreateReservationInput {
	return CreateReservationInput{
		RoomID:          roomID,
		GuestName:       "Ana Souza",
		GuestPhone:      "+55 11 99999-0000",
		PeriodCode:      "4h",
		CheckIn:         checkIn,
		AllowSubstitute: true,
	}
}

func TestCreateReservationImmediateCheckIn(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(30 * time.Minute)

	result, err := fx.svc.Create(context.Background(), walkIn("room-101", checkIn))
	require.NoError(t, err)

	res := result.Reservation
	assert.Equal(t, "RES-20250610-AAAAAA", res.Number)
	assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
	assert.Equal(t, "101", res.RoomNumber)
	assert.Equal(t, checkIn.Add(4*time.Hour), res.CheckOut, "check-out derives from the period length")
	assert.Equal(t, 90.0, res.PeriodPrice)
	assert.Equal(t, 90.0, res.TotalAmount)
	assert.Equal(t, domain.SourceFrontDesk, res.Source)
	assert.False(t, result.RoomChanged)
	assert.False(t, result.PricingDegraded)

	// Check-in within the pre-block window takes the room out of circulation.
	assert.Equal(t, domain.RoomStatusOccupied, fx.rooms.statusOf("room-101"))

	stored, err := fx.resRepo.GetByNumber(context.Background(), res.Number)
	require.NoError(t, err)
	assert.Equal(t, res.ID, stored.ID)
}

func TestCreateReservationFarFutureKeepsRoomSellable(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(48 * time.Hour)

	result, err := fx.svc.Create(context.Background(), walkIn("room-101", checkIn))
	require.NoError(t, err)

	assert.Equal(t, domain.ReservationStatusConfirmed, result.Reservation.Status)
	assert.Equal(t, domain.RoomStatusAvailable, fx.rooms.statusOf("room-101"))
	assert.Zero(t, fx.rooms.changeCount())
}

func TestCreateReservationSubstitutesSameCategory(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-existing", RoomID: "room-101", RoomNumber: "101",
		GuestName: "Bruno Lima",
		CheckIn:   checkIn, CheckOut: checkIn.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})

	result, err := fx.svc.Create(context.Background(), walkIn("room-101", checkIn))
	require.NoError(t, err)

	assert.True(t, result.RoomChanged)
	assert.Equal(t, "101", result.RequestedRoom)
	assert.Equal(t, "102", result.Reservation.RoomNumber, "first same-category room by number")
	assert.Equal(t, domain.RoomStatusOccupied, fx.rooms.statusOf("room-102"))
	assert.Equal(t, domain.RoomStatusAvailable, fx.rooms.statusOf("room-101"))
}

func TestCreateReservationConflictWithoutSubstitution(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-existing", Number: "RES-20250610-TAKEN1",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Bruno Lima",
		CheckIn: checkIn, CheckOut: checkIn.Add(4 * time.Hour),
		Status: domain.ReservationStatusCheckedIn,
	})

	in := walkIn("room-101", checkIn)
	in.AllowSubstitute = false
	_, err := fx.svc.Create(context.Background(), in)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "101", conflict.RoomNumber)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, "RES-20250610-TAKEN1", conflict.Conflicts[0].Number)

	// Alternatives list every bookable room, same category first by number.
	require.Len(t, conflict.SuggestedRooms, 2)
	assert.Equal(t, "102", conflict.SuggestedRooms[0].Number)
	assert.True(t, conflict.SuggestedRooms[0].CategoryMatch)
	assert.Equal(t, "201", conflict.SuggestedRooms[1].Number)
	assert.False(t, conflict.SuggestedRooms[1].CategoryMatch)

	assert.Equal(t, 1, fx.resRepo.count(), "nothing new persisted")
}

func TestCreateReservationNoSameCategorySubstitute(t *testing.T) {
	fx := newBookingFixture(t, false)
	require.NoError(t, fx.rooms.UpdateStatus(context.Background(), "room-102", domain.RoomStatusMaintenance))

	checkIn := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-existing", RoomID: "room-101", RoomNumber: "101",
		GuestName: "Bruno Lima",
		CheckIn:   checkIn, CheckOut: checkIn.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})

	// Substitution is allowed but only the suite is free, so the caller
	// gets the conflict with the cross-category option to decide on.
	_, err := fx.svc.Create(context.Background(), walkIn("room-101", checkIn))

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.SuggestedRooms, 1)
	assert.Equal(t, "201", conflict.SuggestedRooms[0].Number)
	assert.False(t, conflict.SuggestedRooms[0].CategoryMatch)
}

func TestCreateReservationSubstituteTakenOnRecheck(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(time.Hour)
	// Both standard rooms hold blocking bookings, but the busy-rooms query
	// reports only 101, as if 102 was grabbed between the two queries.
	fx.seed(t, domain.Reservation{
		ID: "res-101", RoomID: "room-101", RoomNumber: "101", GuestName: "Bruno Lima",
		CheckIn: checkIn, CheckOut: checkIn.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})
	fx.seed(t, domain.Reservation{
		ID: "res-102", Number: "RES-20250610-SEED02",
		RoomID: "room-102", RoomNumber: "102", GuestName: "Carla Dias",
		CheckIn: checkIn, CheckOut: checkIn.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})
	fx.resRepo.busyOverride = map[string]bool{"room-101": true}

	_, err := fx.svc.Create(context.Background(), walkIn("room-101", checkIn))

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	for _, opt := range conflict.SuggestedRooms {
		assert.NotEqual(t, "room-102", opt.RoomID, "the taken substitute is dropped from suggestions")
	}
}

func TestCreateReservationPendingDoesNotBlock(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-pending", RoomID: "room-101", RoomNumber: "101",
		GuestName: "Bruno Lima",
		CheckIn:   checkIn, CheckOut: checkIn.Add(4 * time.Hour),
		Status: domain.ReservationStatusPending,
	})

	result, err := fx.svc.Create(context.Background(), walkIn("room-101", checkIn))
	require.NoError(t, err)
	assert.False(t, result.RoomChanged, "a pending hold does not block the room")
	assert.Equal(t, "101", result.Reservation.RoomNumber)
}

func TestCreateReservationBackToBackStays(t *testing.T) {
	fx := newBookingFixture(t, false)
	turnover := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-early", RoomID: "room-101", RoomNumber: "101",
		GuestName: "Bruno Lima",
		CheckIn:   turnover.Add(-4 * time.Hour), CheckOut: turnover,
		Status: domain.ReservationStatusCheckedIn,
	})

	// New stay starts exactly when the old one ends. Half-open intervals
	// make that a clean hand-over, not a conflict.
	result, err := fx.svc.Create(context.Background(), walkIn("room-101", turnover))
	require.NoError(t, err)
	assert.False(t, result.RoomChanged)
}

func TestCreateReservationRegeneratesNumberOnCollision(t *testing.T) {
	fx := newBookingFixture(t, false)
	fx.resRepo.createErrs = []error{domain.ErrDuplicateNumber}

	result, err := fx.svc.Create(context.Background(), walkIn("room-101", baseTime().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "RES-20250610-BBBBBB", result.Reservation.Number)
}

func TestCreateReservationConflictQueryFailure(t *testing.T) {
	t.Run("fail closed by default", func(t *testing.T) {
		fx := newBookingFixture(t, false)
		fx.resRepo.overlapErr = errors.New("connection refused")

		_, err := fx.svc.Create(context.Background(), walkIn("room-101", baseTime().Add(time.Hour)))
		require.Error(t, err)
		assert.Equal(t, 0, fx.resRepo.count())
	})

	t.Run("fail open admits the booking", func(t *testing.T) {
		fx := newBookingFixture(t, true)
		fx.resRepo.overlapErr = errors.New("connection refused")

		result, err := fx.svc.Create(context.Background(), walkIn("room-101", baseTime().Add(time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, domain.ReservationStatusConfirmed, result.Reservation.Status)
	})
}

func TestCreateReservationBlockedGuest(t *testing.T) {
	fx := newBookingFixture(t, false)
	fx.guests.guests["guest-1"] = domain.Guest{ID: "guest-1", Name: "Denis Rocha", Blocked: true}

	in := walkIn("room-101", baseTime().Add(time.Hour))
	in.GuestID = "guest-1"
	in.GuestName = ""
	_, err := fx.svc.Create(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, fx.resRepo.count())
}

func TestCreateReservationSnapshotsStoredGuest(t *testing.T) {
	fx := newBookingFixture(t, false)
	fx.guests.guests["guest-1"] = domain.Guest{
		ID: "guest-1", Name: "Denis Rocha", Phone: "+55 11 98888-0000",
		Email: "denis@example.com", Document: "123.456.789-00",
	}

	in := walkIn("room-101", baseTime().Add(time.Hour))
	in.GuestID = "guest-1"
	in.GuestName = ""
	in.GuestPhone = ""
	result, err := fx.svc.Create(context.Background(), in)
	require.NoError(t, err)

	res := result.Reservation
	assert.Equal(t, "Denis Rocha", res.GuestName)
	assert.Equal(t, "+55 11 98888-0000", res.GuestPhone)
	assert.Equal(t, "denis@example.com", res.GuestEmail)
	assert.Equal(t, "123.456.789-00", res.GuestDoc)
}

func TestCreateReservationUnknownPeriod(t *testing.T) {
	fx := newBookingFixture(t, false)

	in := walkIn("room-101", baseTime().Add(time.Hour))
	in.PeriodCode = "weekly"
	_, err := fx.svc.Create(context.Background(), in)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateReservationAutoPicksFirstFreeRoom(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-existing", RoomID: "room-101", RoomNumber: "101",
		GuestName: "Bruno Lima",
		CheckIn:   checkIn, CheckOut: checkIn.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})

	result, err := fx.svc.Create(context.Background(), walkIn("", checkIn))
	require.NoError(t, err)

	assert.Equal(t, "102", result.Reservation.RoomNumber, "lowest free room by number")
	assert.False(t, result.RoomChanged, "nothing was requested, so nothing changed")
	assert.Empty(t, result.RequestedRoom)
}

func TestCreateReservationAutoPickNoRoomFree(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(time.Hour)
	for _, roomID := range []string{"room-101", "room-102", "room-201"} {
		fx.seed(t, domain.Reservation{
			ID: roomID + "-hold", Number: "RES-HOLD-" + roomID,
			RoomID: roomID, GuestName: "Bruno Lima",
			CheckIn: checkIn, CheckOut: checkIn.Add(4 * time.Hour),
			Status: domain.ReservationStatusConfirmed,
		})
	}

	_, err := fx.svc.Create(context.Background(), walkIn("", checkIn))

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Empty(t, conflict.Conflicts)
	assert.Empty(t, conflict.SuggestedRooms)
	assert.Equal(t, 3, fx.resRepo.count(), "nothing new persisted")
}

func TestCreateReservationUsesRoomRate(t *testing.T) {
	fx := newBookingFixture(t, false)
	suite, err := fx.rooms.GetByID(context.Background(), "room-201")
	require.NoError(t, err)
	suite.Rates = map[string]float64{"4h": 150}
	require.NoError(t, fx.rooms.Update(context.Background(), suite))

	result, err := fx.svc.Create(context.Background(), walkIn("room-201", baseTime().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, 150.0, result.Reservation.PeriodPrice, "the room's rate beats the period base price")
	assert.Equal(t, 150.0, result.Reservation.TotalAmount)

	// A room without a rate entry keeps the period base price.
	base, err := fx.svc.Create(context.Background(), walkIn("room-101", baseTime().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, 90.0, base.Reservation.PeriodPrice)
}

func TestCreateReservationPriceOverride(t *testing.T) {
	fx := newBookingFixture(t, false)

	in := walkIn("room-101", baseTime().Add(time.Hour))
	in.PriceOverride = fptr(75)
	result, err := fx.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 75.0, result.Reservation.TotalAmount)
	assert.Equal(t, 90.0, result.Reservation.PeriodPrice, "the list price stays on the record")

	bad := walkIn("room-102", baseTime().Add(time.Hour))
	bad.PriceOverride = fptr(-10)
	_, err = fx.svc.Create(context.Background(), bad)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateReservationStoresPaymentMethod(t *testing.T) {
	fx := newBookingFixture(t, false)

	in := walkIn("room-101", baseTime().Add(time.Hour))
	in.PaymentMethod = domain.PaymentCash
	result, err := fx.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCash, result.Reservation.PaymentMethod)
	assert.Equal(t, domain.PaymentStatusPending, result.Reservation.PaymentStatus)

	bad := walkIn("room-102", baseTime().Add(time.Hour))
	bad.PaymentMethod = "barter"
	_, err = fx.svc.Create(context.Background(), bad)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCheckConflictsDryRun(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-existing", Number: "RES-20250610-TAKEN1",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Bruno Lima",
		CheckIn: checkIn, CheckOut: checkIn.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})

	report, err := fx.svc.CheckConflicts(context.Background(), "room-101", checkIn, checkIn.Add(2*time.Hour), "")
	require.NoError(t, err)
	assert.True(t, report.HasConflict)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, 1, report.Considered)
	assert.Len(t, report.Alternatives, 2)

	free, err := fx.svc.CheckConflicts(context.Background(), "room-102", checkIn, checkIn.Add(2*time.Hour), "")
	require.NoError(t, err)
	assert.False(t, free.HasConflict)
	assert.Empty(t, free.Conflicts)
	assert.Zero(t, free.Considered)
	assert.NotNil(t, free.Alternatives)

	assert.Equal(t, 1, fx.resRepo.count(), "dry run stores nothing")
	assert.Zero(t, fx.rooms.changeCount(), "dry run touches no room")
}

func TestCheckConflictsReportsOverlapWindow(t *testing.T) {
	fx := newBookingFixture(t, false)
	start := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-existing", Number: "RES-20250610-TAKEN1",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Bruno Lima",
		CheckIn: start, CheckOut: start.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})

	// Requested range hangs over the tail of the stay; the overlap is the
	// shared slice, not either full range.
	report, err := fx.svc.CheckConflicts(context.Background(), "room-101",
		start.Add(3*time.Hour), start.Add(7*time.Hour), "")
	require.NoError(t, err)
	require.Len(t, report.Conflicts, 1)

	c := report.Conflicts[0]
	assert.Equal(t, "Bruno Lima", c.GuestName)
	assert.Equal(t, start.Add(3*time.Hour), c.Overlap.Start)
	assert.Equal(t, start.Add(4*time.Hour), c.Overlap.End)
}

func TestCheckConflictsExcludesEditedReservation(t *testing.T) {
	fx := newBookingFixture(t, false)
	start := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-mine", Number: "RES-20250610-MINE01",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		CheckIn: start, CheckOut: start.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})

	report, err := fx.svc.CheckConflicts(context.Background(), "room-101", start, start.Add(4*time.Hour), "res-mine")
	require.NoError(t, err)
	assert.False(t, report.HasConflict, "a booking does not collide with itself")
	assert.Equal(t, 1, report.Considered)
	assert.Empty(t, report.Conflicts)
}

func TestCheckConflictsNeverFailsOpen(t *testing.T) {
	fx := newBookingFixture(t, true)
	fx.resRepo.overlapErr = errors.New("connection refused")

	_, err := fx.svc.CheckConflicts(context.Background(), "room-101", baseTime(), baseTime().Add(time.Hour), "")
	require.Error(t, err, "the dry run reports storage errors even with fail-open enabled")
}

func TestChangeStatusLifecycle(t *testing.T) {
	fx := newBookingFixture(t, false)
	checkIn := baseTime().Add(-time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-1", Number: "RES-20250610-LIFEC1",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		CheckIn: checkIn, CheckOut: checkIn.Add(12 * time.Hour),
		Status: domain.ReservationStatusConfirmed, PeriodPrice: 180, TotalAmount: 180,
	})
	fx.orders.extras["res-1"] = 42.5

	res, err := fx.svc.CheckIn(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCheckedIn, res.Status)
	require.NotNil(t, res.CheckedInAt)
	assert.Equal(t, baseTime(), *res.CheckedInAt)
	assert.Equal(t, domain.RoomStatusOccupied, fx.rooms.statusOf("room-101"))

	fx.clock.Advance(6 * time.Hour)
	res, err = fx.svc.CheckOut(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCheckedOut, res.Status)
	require.NotNil(t, res.CheckedOutAt)
	assert.Equal(t, 42.5, res.ExtrasTotal)
	assert.Equal(t, 222.5, res.TotalAmount, "period price plus delivered extras")
	assert.Equal(t, domain.RoomStatusCleaning, fx.rooms.statusOf("room-101"))
}

func TestChangeStatusRejectsIllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		from domain.ReservationStatus
		to   domain.ReservationStatus
	}{
		{"pending cannot check in", domain.ReservationStatusPending, domain.ReservationStatusCheckedIn},
		{"confirmed cannot check out", domain.ReservationStatusConfirmed, domain.ReservationStatusCheckedOut},
		{"checked-out is terminal", domain.ReservationStatusCheckedOut, domain.ReservationStatusCancelled},
		{"cancelled is terminal", domain.ReservationStatusCancelled, domain.ReservationStatusConfirmed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newBookingFixture(t, false)
			fx.seed(t, domain.Reservation{
				ID: "res-1", RoomID: "room-101", RoomNumber: "101",
				GuestName: "Ana Souza",
				CheckIn:   baseTime(), CheckOut: baseTime().Add(4 * time.Hour),
				Status: tc.from,
			})

			_, err := fx.svc.ChangeStatus(context.Background(), "res-1", tc.to)

			var terr *domain.TransitionError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tc.from, terr.From)
			assert.Equal(t, tc.to, terr.To)
		})
	}
}

func TestChangeStatusUnknownStatus(t *testing.T) {
	fx := newBookingFixture(t, false)

	_, err := fx.svc.ChangeStatus(context.Background(), "res-1", "paused")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCancelConfirmedFreesRoom(t *testing.T) {
	fx := newBookingFixture(t, false)
	require.NoError(t, fx.rooms.UpdateStatus(context.Background(), "room-101", domain.RoomStatusOccupied))
	fx.seed(t, domain.Reservation{
		ID: "res-1", RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		CheckIn: baseTime().Add(time.Hour), CheckOut: baseTime().Add(5 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})

	res, err := fx.svc.Cancel(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, res.Status)
	require.NotNil(t, res.CancelledAt)
	assert.Equal(t, domain.RoomStatusAvailable, fx.rooms.statusOf("room-101"))
}

func TestCancelPendingLeavesRoomAlone(t *testing.T) {
	fx := newBookingFixture(t, false)
	// The room is occupied by someone else; the pending hold never owned it.
	require.NoError(t, fx.rooms.UpdateStatus(context.Background(), "room-101", domain.RoomStatusOccupied))
	before := fx.rooms.changeCount()
	fx.seed(t, domain.Reservation{
		ID: "res-pending", RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		CheckIn: baseTime().Add(time.Hour), CheckOut: baseTime().Add(5 * time.Hour),
		Status: domain.ReservationStatusPending,
	})

	_, err := fx.svc.Cancel(context.Background(), "res-pending")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomStatusOccupied, fx.rooms.statusOf("room-101"))
	assert.Equal(t, before, fx.rooms.changeCount())
}

func TestUpdateReservationReschedule(t *testing.T) {
	fx := newBookingFixture(t, false)
	start := baseTime().Add(24 * time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-1", Number: "RES-20250610-EDIT01",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		PeriodCode: "4h", CheckIn: start, CheckOut: start.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed, PeriodPrice: 90, TotalAmount: 90,
	})

	// Push the stay six hours later and stretch it to the 12h period. The
	// unchanged room must not conflict with the booking's own row.
	res, err := fx.svc.Update(context.Background(), "res-1", UpdateReservationInput{
		PeriodCode: "12h",
		CheckIn:    start.Add(6 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, start.Add(6*time.Hour), res.CheckIn)
	assert.Equal(t, start.Add(18*time.Hour), res.CheckOut, "check-out re-derives from the new period")
	assert.Equal(t, "12h", res.PeriodCode)
	assert.Equal(t, 180.0, res.PeriodPrice)
	assert.Equal(t, 180.0, res.TotalAmount)

	stored, err := fx.resRepo.GetByID(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, start.Add(6*time.Hour), stored.CheckIn)
}

func TestUpdateReservationMovesRoom(t *testing.T) {
	fx := newBookingFixture(t, false)
	require.NoError(t, fx.rooms.UpdateStatus(context.Background(), "room-101", domain.RoomStatusOccupied))
	start := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-1", Number: "RES-20250610-MOVE01",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		PeriodCode: "4h", CheckIn: start, CheckOut: start.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed, PeriodPrice: 90, TotalAmount: 90,
	})

	res, err := fx.svc.Update(context.Background(), "res-1", UpdateReservationInput{RoomID: "room-102"})
	require.NoError(t, err)
	assert.Equal(t, "102", res.RoomNumber)

	assert.Equal(t, domain.RoomStatusAvailable, fx.rooms.statusOf("room-101"), "the old room is released")
	assert.Equal(t, domain.RoomStatusOccupied, fx.rooms.statusOf("room-102"), "imminent check-in pre-blocks the new room")
}

func TestUpdateReservationConflictLeavesStoredRow(t *testing.T) {
	fx := newBookingFixture(t, false)
	start := baseTime().Add(time.Hour)
	fx.seed(t, domain.Reservation{
		ID: "res-1", Number: "RES-20250610-EDIT01",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		PeriodCode: "4h", CheckIn: start, CheckOut: start.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})
	fx.seed(t, domain.Reservation{
		ID: "res-2", Number: "RES-20250610-TAKEN2",
		RoomID: "room-102", RoomNumber: "102", GuestName: "Bruno Lima",
		PeriodCode: "4h", CheckIn: start, CheckOut: start.Add(4 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})

	_, err := fx.svc.Update(context.Background(), "res-1", UpdateReservationInput{RoomID: "room-102"})

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "102", conflict.RoomNumber)
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, "RES-20250610-TAKEN2", conflict.Conflicts[0].Number)
	// 101 still holds res-1 and 102 holds res-2, so only the suite remains.
	require.Len(t, conflict.SuggestedRooms, 1)
	assert.Equal(t, "201", conflict.SuggestedRooms[0].Number)

	stored, err := fx.resRepo.GetByID(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, "room-101", stored.RoomID, "an edit never substitutes silently")
}

func TestUpdateReservationRejectsStartedStay(t *testing.T) {
	for _, status := range []domain.ReservationStatus{
		domain.ReservationStatusCheckedIn,
		domain.ReservationStatusCheckedOut,
		domain.ReservationStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			fx := newBookingFixture(t, false)
			fx.seed(t, domain.Reservation{
				ID: "res-1", RoomID: "room-101", RoomNumber: "101",
				GuestName: "Ana Souza", PeriodCode: "4h",
				CheckIn: baseTime(), CheckOut: baseTime().Add(4 * time.Hour),
				Status: status,
			})

			_, err := fx.svc.Update(context.Background(), "res-1", UpdateReservationInput{RoomID: "room-102"})

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestRecordPayment(t *testing.T) {
	fx := newBookingFixture(t, false)
	fx.seed(t, domain.Reservation{
		ID: "res-1", Number: "RES-20250610-PAY001",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		CheckIn: baseTime(), CheckOut: baseTime().Add(4 * time.Hour),
		Status:        domain.ReservationStatusCheckedOut,
		PaymentStatus: domain.PaymentStatusPending,
	})

	res, err := fx.svc.RecordPayment(context.Background(), "res-1", domain.PaymentCard, domain.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCard, res.PaymentMethod)
	assert.Equal(t, domain.PaymentStatusPaid, res.PaymentStatus)

	stored, err := fx.resRepo.GetByID(context.Background(), "res-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPaid, stored.PaymentStatus)
}

func TestRecordPaymentValidation(t *testing.T) {
	fx := newBookingFixture(t, false)
	fx.seed(t, domain.Reservation{
		ID: "res-cancelled", Number: "RES-20250610-GONE01",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		CheckIn: baseTime(), CheckOut: baseTime().Add(4 * time.Hour),
		Status:        domain.ReservationStatusCancelled,
		PaymentMethod: domain.PaymentCard, PaymentStatus: domain.PaymentStatusPaid,
	})

	var verr *domain.ValidationError

	_, err := fx.svc.RecordPayment(context.Background(), "res-cancelled", "barter", domain.PaymentStatusPaid)
	require.ErrorAs(t, err, &verr)

	_, err = fx.svc.RecordPayment(context.Background(), "res-cancelled", domain.PaymentCard, "settled")
	require.ErrorAs(t, err, &verr)

	_, err = fx.svc.RecordPayment(context.Background(), "res-cancelled", domain.PaymentCard, domain.PaymentStatusPaid)
	require.ErrorAs(t, err, &verr, "a cancelled stay cannot be marked paid")

	res, err := fx.svc.RecordPayment(context.Background(), "res-cancelled", domain.PaymentCard, domain.PaymentStatusRefunded)
	require.NoError(t, err, "refunds on cancelled stays are fine")
	assert.Equal(t, domain.PaymentStatusRefunded, res.PaymentStatus)
}

func TestReleaseNoShows(t *testing.T) {
	fx := newBookingFixture(t, false)
	require.NoError(t, fx.rooms.UpdateStatus(context.Background(), "room-101", domain.RoomStatusOccupied))
	fx.seed(t, domain.Reservation{
		ID: "res-lapsed", Number: "RES-20250610-LAPSED",
		RoomID: "room-101", RoomNumber: "101", GuestName: "Ana Souza",
		CheckIn: baseTime().Add(-3 * time.Hour), CheckOut: baseTime().Add(9 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})
	fx.seed(t, domain.Reservation{
		ID: "res-recent", Number: "RES-20250610-RECENT",
		RoomID: "room-102", RoomNumber: "102", GuestName: "Bruno Lima",
		CheckIn: baseTime().Add(-time.Hour), CheckOut: baseTime().Add(11 * time.Hour),
		Status: domain.ReservationStatusConfirmed,
	})

	released, err := fx.svc.ReleaseNoShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	lapsed, err := fx.resRepo.GetByID(context.Background(), "res-lapsed")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, lapsed.Status)
	assert.Equal(t, domain.RoomStatusAvailable, fx.rooms.statusOf("room-101"))

	recent, err := fx.resRepo.GetByID(context.Background(), "res-recent")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusConfirmed, recent.Status, "still inside the grace period")
}

func fptr(v float64) *float64 { return &v }
