package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrGuestNotFound       = errors.New("guest not found")
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrPeriodNotFound      = errors.New("period type not found")

	// ErrDuplicateNumber is returned when a generated business number hits
	// the storage uniqueness constraint and the caller should regenerate.
	ErrDuplicateNumber = errors.New("duplicate number")

	// ErrRoomInUse blocks room deletion while active reservations reference it.
	ErrRoomInUse = errors.New("room has active reservations")

	// ErrInsufficientStock is returned when an order would drive a product's
	// stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError marks caller mistakes (malformed fields, bad enum values,
// impossible date ranges). Handlers map it to HTTP 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with fmt-style formatting.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TransitionError reports a reservation status change that the lifecycle
// state machine does not permit.
type TransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid reservation transition: %s -> %s", e.From, e.To)
}

// ConflictError is returned when a requested interval collides with existing
// reservations and no alternative room could absorb the booking. It carries
// everything the front desk needs to negotiate with the guest.
type ConflictError struct {
	RoomNumber     string       `json:"roomNumber"`
	Conflicts      []Conflict   `json:"conflicts"`
	SuggestedRooms []RoomOption `json:"suggestedRooms"`
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room %s has %d conflicting reservation(s) and no alternative is free", e.RoomNumber, len(e.Conflicts))
}
