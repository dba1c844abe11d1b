package emailgateway

// SendRequest запрос на отправку письма
type SendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendResponse ответ шлюза на отправку
type SendResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
