package domain

// legalTransitions is the booking lifecycle graph
// pending -> confirmed -> in_progress -> completed, with canceled reachable
// from any non-terminal state; completed and canceled are terminal
var legalTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCanceled},
	StatusConfirmed:  {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusCompleted, StatusCanceled},
	StatusCompleted:  {},
	StatusCanceled:   {},
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another. Callers must never mutate booking status outside this graph
func CanTransition(from, to BookingStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one
func NextStatuses(from BookingStatus) []BookingStatus {
	next := legalTransitions[from]
	out := make([]BookingStatus, len(next))
	copy(out, next)
	return out
}

// ParseBookingStatus validates a raw status string
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCanceled:
		return BookingStatus(s), true
	}
	return "", false
}
