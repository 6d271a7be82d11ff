package domain

import "time"

// Interval is a half-open time range [Start, End). The end instant is not
// occupied, so a stay ending at 14:00 never collides with one starting at
// 14:00. All occupancy math in the system goes through this type.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval validates and builds an interval. Start must be strictly
// before End; zero-length and inverted ranges are rejected.
func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, NewValidationError("interval start %s must be before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals share at least one
// instant: a.Start < b.End && a.End > b.Start. Back-to-back intervals
// (a.End == b.Start) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Intersect returns the shared sub-range of two intervals and whether one
// exists. When it does, the result is [max(starts), min(ends)).
func (a Interval) Intersect(b Interval) (Interval, bool) {
	if !a.Overlaps(b) {
		return Interval{}, false
	}
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	return Interval{Start: start, End: end}, true
}

// Duration returns the length of the interval.
func (a Interval) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

// Contains reports whether t falls inside the half-open range.
func (a Interval) Contains(t time.Time) bool {
	return !t.Before(a.Start) && t.Before(a.End)
}
