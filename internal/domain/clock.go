package domain

import "time"

// Clock abstracts "now" so services and the status reconciler can be tested
// at fixed instants.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
