package application

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NumberGenerator produces reservation business numbers. Injected so tests
// can pin the output.
type NumberGenerator interface {
	// NewReservationNumber returns a fresh candidate number for a booking
	// made at the given instant.
	NewReservationNumber(at time.Time) string
}

// UUIDNumberGenerator derives numbers of the form RES-20260825-3F7A1C from
// the booking date plus a random suffix. The suffix makes collisions
// practically impossible; the database unique constraint catches the rest
// and the caller regenerates.
type UUIDNumberGenerator struct{}

func (UUIDNumberGenerator) NewReservationNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return "RES-" + at.Format("20060102") + "-" + suffix
}
