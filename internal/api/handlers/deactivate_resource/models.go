package deactivate_resource

// DeactivateResourceRequest HTTP request model
// force: nil — использовать политику из конфига, true — деактивировать
// несмотря на будущие активные бронирования
type DeactivateResourceRequest struct {
	Force *bool `json:"force,omitempty"`
}

// ConflictResponse ответ при отказе в деактивации из-за будущих бронирований
type ConflictResponse struct {
	Code       int     `json:"code"`
	Message    string  `json:"message"`
	ResourceID int64   `json:"resourceId"`
	BookingIDs []int64 `json:"bookingIds"`
}
