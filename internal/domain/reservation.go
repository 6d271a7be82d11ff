package domain

import (
	"context"
	"time"
)

// ReservationStatus is the lifecycle state of a booking.
type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "pending"
	ReservationStatusConfirmed  ReservationStatus = "confirmed"
	ReservationStatusCheckedIn  ReservationStatus = "checked-in"
	ReservationStatusCheckedOut ReservationStatus = "checked-out"
	ReservationStatusCancelled  ReservationStatus = "cancelled"
)

// ValidReservationStatus reports whether s is one of the known statuses.
func ValidReservationStatus(s ReservationStatus) bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCheckedIn,
		ReservationStatusCheckedOut, ReservationStatusCancelled:
		return true
	}
	return false
}

// reservationTransitions is the only legal movement through the lifecycle.
// Terminal states have no outgoing edges.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCheckedIn, ReservationStatusCancelled},
	ReservationStatusCheckedIn: {ReservationStatusCheckedOut, ReservationStatusCancelled},
}

// CanTransition reports whether a reservation may move from one status to
// another.
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range reservationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Blocking reports whether a reservation in this status holds its room
// against other bookings. Pending holds nothing: the desk has not committed
// the room yet.
func (s ReservationStatus) Blocking() bool {
	return s == ReservationStatusConfirmed || s == ReservationStatusCheckedIn
}

// BlockingStatuses is the set used by conflict queries.
func BlockingStatuses() []ReservationStatus {
	return []ReservationStatus{ReservationStatusConfirmed, ReservationStatusCheckedIn}
}

// LifecycleEvent names the moments at which room status must be reconciled
// and which the queue fans out to interested workers.
type LifecycleEvent string

const (
	EventReservationCreated    LifecycleEvent = "reservation.created"
	EventReservationUpdated    LifecycleEvent = "reservation.updated"
	EventReservationConfirmed  LifecycleEvent = "reservation.confirmed"
	EventReservationCheckedIn  LifecycleEvent = "reservation.checked_in"
	EventReservationCheckedOut LifecycleEvent = "reservation.checked_out"
	EventReservationCancelled  LifecycleEvent = "reservation.cancelled"
	EventRoomCleaned           LifecycleEvent = "room.cleaned"
	EventRoomStatusChanged     LifecycleEvent = "room.status_changed"
	EventOrderCreated          LifecycleEvent = "order.created"
	EventOrderStatusChanged    LifecycleEvent = "order.status_changed"
)

// PaymentMethod is how the guest settled, or will settle, the stay.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentPix      PaymentMethod = "pix"
	PaymentTransfer PaymentMethod = "transfer"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentPix, PaymentTransfer:
		return true
	}
	return false
}

// PaymentStatus tracks whether the stay has been settled.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ValidPaymentStatus reports whether s is one of the known statuses.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// ReservationSource records how the booking reached the desk.
type ReservationSource string

const (
	SourceFrontDesk ReservationSource = "front_desk"
	SourcePhone     ReservationSource = "phone"
	SourceOnline    ReservationSource = "online"
)

// Reservation is a booking of one room for one interval. Guest identity is
// snapshotted onto the row so the record stays readable even if the guest
// registry entry is later edited or removed.
type Reservation struct {
	ID         string            `json:"id"`
	Number     string            `json:"number"`
	RoomID     string            `json:"roomId"`
	RoomNumber string            `json:"roomNumber"`
	GuestID    string            `json:"guestId,omitempty"`
	GuestName  string            `json:"guestName"`
	GuestPhone string            `json:"guestPhone,omitempty"`
	GuestEmail string            `json:"guestEmail,omitempty"`
	GuestDoc   string            `json:"guestDocument,omitempty"`
	PeriodCode string            `json:"periodCode"`
	CheckIn    time.Time         `json:"checkIn"`
	CheckOut   time.Time         `json:"checkOut"`
	Status     ReservationStatus `json:"status"`
	Source     ReservationSource `json:"source"`

	PeriodPrice   float64       `json:"periodPrice"`
	ExtrasTotal   float64       `json:"extrasTotal"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	Notes     string `json:"notes,omitempty"`
	CreatedBy string `json:"createdBy,omitempty"`

	CheckedInAt  *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `json:"checkedOutAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Interval returns the booked range as a half-open interval.
func (r *Reservation) Interval() Interval {
	return Interval{Start: r.CheckIn, End: r.CheckOut}
}

// Conflict is one existing reservation that collides with a requested range.
// Overlap is the shared sub-interval, [max(starts), min(ends)).
type Conflict struct {
	ReservationID string            `json:"reservationId"`
	Number        string            `json:"number"`
	Status        ReservationStatus `json:"status"`
	GuestName     string            `json:"guestName"`
	CheckIn       time.Time         `json:"checkIn"`
	CheckOut      time.Time         `json:"checkOut"`
	Overlap       Interval          `json:"overlap"`
}

// ReservationFilter narrows List queries. Zero values mean "no filter".
type ReservationFilter struct {
	Status  ReservationStatus
	RoomID  string
	GuestID string
	From    time.Time
	To      time.Time
	Limit   int
}

// ReservationRepository persists reservations.
type ReservationRepository interface {
	// Create stores a new reservation. It returns ErrDuplicateNumber when
	// the generated business number collides, so the caller can regenerate.
	Create(ctx context.Context, res *Reservation) error
	// GetByID fetches one reservation or ErrReservationNotFound.
	GetByID(ctx context.Context, id string) (*Reservation, error)
	// GetByNumber fetches one reservation by business number.
	GetByNumber(ctx context.Context, number string) (*Reservation, error)
	// List returns reservations matching the filter, newest first.
	List(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	// ListOverlapping returns reservations on one room whose interval
	// overlaps the given range and whose status is in statuses.
	ListOverlapping(ctx context.Context, roomID string, ival Interval, statuses []ReservationStatus) ([]Reservation, error)
	// BusyRoomIDs returns the IDs of rooms holding at least one reservation
	// in statuses that overlaps the range.
	BusyRoomIDs(ctx context.Context, ival Interval, statuses []ReservationStatus) (map[string]bool, error)
	// Update rewrites mutable fields including status and lifecycle stamps.
	Update(ctx context.Context, res *Reservation) error
	// ListNoShowCandidates returns confirmed reservations whose check-in
	// instant is older than cutoff and that never checked in.
	ListNoShowCandidates(ctx context.Context, cutoff time.Time) ([]Reservation, error)
}
