package application

import (
	"time"

	"github.com/AlexSafo-tech/motel-management-backend-sub000/internal/domain"
)

// StatusPolicy decides what a lifecycle event does to the room's status.
// It is pure: callers pass the clock reading in, so every rule is testable
// at a fixed instant.
type StatusPolicy struct {
	// PreBlock is how far before check-in a new confirmed booking already
	// takes the room out of circulation.
	PreBlock time.Duration
}

// NewStatusPolicy builds a policy. A zero preBlock falls back to two hours.
func NewStatusPolicy(preBlock time.Duration) StatusPolicy {
	if preBlock <= 0 {
		preBlock = 2 * time.Hour
	}
	return StatusPolicy{PreBlock: preBlock}
}

// TargetRoomStatus returns the status the room should move to after an
// event, and whether the event touches the room at all. checkIn is only
// read for creation events; other events ignore it.
//
// A new confirmed booking occupies the room immediately when check-in is
// imminent: already past, later today, or inside the pre-block window.
// A far-future booking leaves the room sellable until the window opens.
func (p StatusPolicy) TargetRoomStatus(event domain.LifecycleEvent, now, checkIn time.Time) (domain.RoomStatus, bool) {
	switch event {
	case domain.EventReservationCreated, domain.EventReservationConfirmed:
		if !checkIn.After(now) || sameDay(checkIn, now) || checkIn.Sub(now) <= p.PreBlock {
			return domain.RoomStatusOccupied, true
		}
		return "", false
	case domain.EventReservationCheckedIn:
		return domain.RoomStatusOccupied, true
	case domain.EventReservationCheckedOut:
		return domain.RoomStatusCleaning, true
	case domain.EventReservationCancelled:
		return domain.RoomStatusAvailable, true
	case domain.EventRoomCleaned:
		return domain.RoomStatusAvailable, true
	}
	return "", false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
