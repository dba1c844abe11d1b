package domain

import "time"

// EventKind identifies a booking lifecycle event for notifications
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventConfirmed EventKind = "confirmed"
	EventStarted   EventKind = "started"
	EventCompleted EventKind = "completed"
	EventCanceled  EventKind = "canceled"
)

// Channel identifies the notification transport
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// OutboxStatus is the delivery state of an outbox record
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

// NotificationEvent is a lifecycle event queued for delivery
// Written into the outbox in the same transaction as the status change;
// drained asynchronously so dispatch latency never blocks a transition
type NotificationEvent struct {
	ID        string // uuid
	BookingID int64
	Kind      EventKind
	Channel   Channel
	Recipient string

	// Denormalized booking data for message templating
	CustomerName string
	ServiceName  string
	VehicleInfo  string
	ScheduledAt  time.Time
	Location     string

	Status    OutboxStatus
	Attempts  int
	LastError *string
	CreatedAt time.Time
	SentAt    *time.Time
}
