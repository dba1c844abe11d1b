package domain

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := [][2]BookingStatus{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCanceled},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusCanceled},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusCanceled},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s allowed", pair[0], pair[1])
		}
	}

	denied := [][2]BookingStatus{
		{StatusPending, StatusInProgress},
		{StatusPending, StatusCompleted},
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusPending},
		{StatusCompleted, StatusCanceled},
		{StatusCompleted, StatusPending},
		{StatusCanceled, StatusPending},
		{StatusCanceled, StatusConfirmed},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s denied", pair[0], pair[1])
		}
	}
}

func TestTerminalStatusesHaveNoSuccessors(t *testing.T) {
	for _, status := range TerminalStatuses {
		if next := NextStatuses(status); len(next) != 0 {
			t.Fatalf("terminal status %s has successors %v", status, next)
		}
	}
}

func TestParseBookingStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "in_progress", "completed", "canceled"} {
		status, ok := ParseBookingStatus(raw)
		if !ok {
			t.Fatalf("expected %q to parse", raw)
		}
		if string(status) != raw {
			t.Fatalf("parsed %q, got %s", raw, status)
		}
	}

	if _, ok := ParseBookingStatus("cancelled"); ok {
		t.Fatalf("expected double-l spelling to be rejected")
	}
}

func TestBookingIsActive(t *testing.T) {
	for _, status := range ActiveStatuses {
		b := Booking{Status: status}
		if !b.IsActive() {
			t.Fatalf("expected %s to be active", status)
		}
		if b.IsTerminal() {
			t.Fatalf("expected %s to not be terminal", status)
		}
	}

	for _, status := range TerminalStatuses {
		b := Booking{Status: status}
		if b.IsActive() {
			t.Fatalf("expected %s to not be active", status)
		}
		if !b.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
}
