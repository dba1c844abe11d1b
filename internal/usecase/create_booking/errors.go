package create_booking

import "errors"

var (
	// ErrValidation возвращается при некорректных входных данных
	// Отклоняется до любых обращений к резервации
	ErrValidation = errors.New("create_booking: validation failed")

	// ErrInvalidSchedule возвращается, когда желаемое время не в будущем
	ErrInvalidSchedule = errors.New("create_booking: scheduled start must be in the future")

	// ErrServiceNotFound возвращается, когда услуга не найдена в организации
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается для выключенной услуги
	ErrServiceInactive = errors.New("create_booking: service is inactive")

	// ErrVehicleNotFound возвращается, когда автомобиль клиента не найден
	// или принадлежит другому пользователю
	ErrVehicleNotFound = errors.New("create_booking: customer vehicle not found")

	// ErrResourceNotFound возвращается, когда явно выбранный ресурс не найден,
	// неактивен или не принадлежит организации
	ErrResourceNotFound = errors.New("create_booking: requested resource not found")

	// ErrNoResourceAvailable возвращается, когда у организации нет ни одного
	// активного ресурса требуемого типа
	ErrNoResourceAvailable = errors.New("create_booking: no resource of required type available")

	// ErrSlotUnavailable возвращается, когда все подходящие ресурсы заняты
	// в запрошенном интервале либо конкурентная аллокация выиграла слот
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
