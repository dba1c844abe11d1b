package smsgateway

import "errors"

var (
	// ErrSendFailed возвращается, когда шлюз отклонил отправку SMS
	ErrSendFailed = errors.New("smsgateway client: send failed")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("smsgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("smsgateway client: invalid response")
)
