package get_available_slots

import "errors"

var (
	// ErrValidation возвращается при некорректных входных данных
	ErrValidation = errors.New("get_available_slots: validation error")

	// ErrResourceNotFound возвращается, когда ресурс не найден или не принадлежит организации
	ErrResourceNotFound = errors.New("get_available_slots: resource not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или не принадлежит организации
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("get_available_slots: internal error")
)
