package emailgateway

import "errors"

var (
	// ErrSendFailed возвращается, когда шлюз отклонил отправку письма
	ErrSendFailed = errors.New("emailgateway client: send failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("emailgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("emailgateway client: invalid response")
)
