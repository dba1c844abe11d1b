package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 15
	DefaultAllocationAttempts     = 3
	DefaultOpenTime               = "08:00"
	DefaultCloseTime              = "20:00"
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxNotesLength            = 500
	MaxCancelReasonLength     = 500
	MaxAddressLength          = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, при которых бронирование удерживает ресурсы
// Используется индексом доступности при поиске пересечений
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// TerminalStatuses список конечных статусов
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCanceled,
}
