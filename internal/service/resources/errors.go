package resources

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("resources: resource not found")

	// ErrResourceInUse возвращается при попытке деактивировать ресурс с
	// будущими активными бронированиями без force
	ErrResourceInUse = errors.New("resources: resource has future active bookings")

	// ErrAccessDenied возвращается при обращении к ресурсу чужой организации
	ErrAccessDenied = errors.New("resources: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("resources: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("resources: internal error")
)

// InUseError несёт список конфликтующих бронирований при отказе в деактивации
// errors.Is(err, ErrResourceInUse) работает через Unwrap
type InUseError struct {
	ResourceID int64
	BookingIDs []int64
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%v: resource=%d, bookings=%v", ErrResourceInUse, e.ResourceID, e.BookingIDs)
}

func (e *InUseError) Unwrap() error {
	return ErrResourceInUse
}
