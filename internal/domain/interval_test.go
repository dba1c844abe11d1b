package domain

import (
	"testing"
	"time"
)

func rangeAt(t *testing.T, startClock, endClock string) TimeRange {
	t.Helper()
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	parse := func(clock string) time.Time {
		parsed, err := time.Parse(TimeFormat, clock)
		if err != nil {
			t.Fatalf("bad clock %q: %v", clock, err)
		}
		return day.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
	}
	return TimeRange{Start: parse(startClock), End: parse(endClock)}
}

func TestOverlaps(t *testing.T) {
	base := rangeAt(t, "10:00", "10:30")

	cases := []struct {
		name  string
		other TimeRange
		want  bool
	}{
		{"identical", rangeAt(t, "10:00", "10:30"), true},
		{"starts inside", rangeAt(t, "10:15", "10:45"), true},
		{"ends inside", rangeAt(t, "09:45", "10:15"), true},
		{"covers", rangeAt(t, "09:00", "11:00"), true},
		{"inside", rangeAt(t, "10:10", "10:20"), true},
		{"touching end", rangeAt(t, "10:30", "11:00"), false},
		{"touching start", rangeAt(t, "09:30", "10:00"), false},
		{"before", rangeAt(t, "08:00", "09:00"), false},
		{"after", rangeAt(t, "11:00", "12:00"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps(%s) = %v, want %v", tc.name, got, tc.want)
			}
			// Overlap is symmetric
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Fatalf("reverse Overlaps(%s) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	r := rangeAt(t, "10:00", "10:30")

	if !r.Contains(r.Start) {
		t.Fatalf("start must be inside a half-open interval")
	}
	if r.Contains(r.End) {
		t.Fatalf("end must be outside a half-open interval")
	}
	if !r.Contains(r.Start.Add(15 * time.Minute)) {
		t.Fatalf("midpoint must be inside")
	}
}

func TestIsValid(t *testing.T) {
	if !rangeAt(t, "10:00", "10:30").IsValid() {
		t.Fatalf("ordered interval must be valid")
	}
	if rangeAt(t, "10:30", "10:00").IsValid() {
		t.Fatalf("reversed interval must be invalid")
	}
	if rangeAt(t, "10:00", "10:00").IsValid() {
		t.Fatalf("empty interval must be invalid")
	}
}
