package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCanceled   BookingStatus = "canceled"
)

// CancelActor identifies who initiated a cancellation
type CancelActor string

const (
	CanceledByCustomer CancelActor = "customer"
	CanceledByOrg      CancelActor = "organization"
	CanceledByOps      CancelActor = "operational_failure"
)

// Booking represents a scheduled wash service in the system
// Resource references (wash center, employee, fleet vehicle) point into the
// resources table; customer and vehicle data is denormalized for history
type Booking struct {
	ID                int64
	OrgID             int64
	UserID            int64
	ServiceID         int64
	CustomerVehicleID int64

	WashCenterID   *int64 // set for center-type services
	EmployeeID     *int64
	FleetVehicleID *int64 // set for mobile-type services

	ScheduledStart time.Time // UTC
	ScheduledEnd   time.Time // UTC, start + service duration
	Status         BookingStatus
	TotalPrice     float64
	Address        *string // required for mobile-type services

	// Denormalized data for history and notifications
	ServiceName     string
	ServiceType     ServiceType
	CustomerName    string
	CustomerEmail   *string
	CustomerPhone   *string
	VehiclePlate    *string
	VehicleBrand    *string
	VehicleModel    *string
	Notes           *string

	CancellationReason *string
	CanceledBy         *CancelActor
	CanceledAt         *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds its resource reservations
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusInProgress
}

// IsTerminal returns true if the booking reached a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCanceled
}

// Window returns the booked half-open time interval
func (b *Booking) Window() TimeRange {
	return TimeRange{Start: b.ScheduledStart, End: b.ScheduledEnd}
}

// References returns true if the booking is assigned the given resource
func (b *Booking) References(resourceID int64) bool {
	for _, id := range []*int64{b.WashCenterID, b.EmployeeID, b.FleetVehicleID} {
		if id != nil && *id == resourceID {
			return true
		}
	}
	return false
}

// OrgBookingsFilter фильтр для получения бронирований организации
type OrgBookingsFilter struct {
	OrgID           int64
	ResourceID      *int64         // фильтр по назначенному ресурсу (опционально)
	StartDate       *time.Time     // начало периода (опционально)
	EndDate         *time.Time     // конец периода (опционально)
	Status          *BookingStatus // фильтр по статусу (опционально)
	IncludeInactive bool           // включать ли завершенные и отмененные
}
