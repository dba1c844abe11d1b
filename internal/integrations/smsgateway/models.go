package smsgateway

// SendRequest запрос на отправку SMS
type SendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
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
