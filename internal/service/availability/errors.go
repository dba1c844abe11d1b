package availability

import "errors"

var (
	// ErrResourceNotFound возвращается, когда ресурс не найден
	ErrResourceNotFound = errors.New("availability: resource not found")

	// ErrInvalidWindow возвращается при некорректном временном интервале
	ErrInvalidWindow = errors.New("availability: invalid time window")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
