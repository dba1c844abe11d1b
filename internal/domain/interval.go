package domain

import "time"

// TimeRange is a half-open interval [Start, End)
// Touching endpoints do not overlap: a booking ending at 10:30 does not
// conflict with one starting at 10:30
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether t falls inside the interval
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration returns the interval length
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// IsValid reports whether the interval is non-empty and ordered
func (r TimeRange) IsValid() bool {
	return r.Start.Before(r.End)
}
