package cancel_booking

import (
	"github.com/m04kA/CWP-AllocationService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
// Инициатор берётся из контекста аутентификации
func (r *CancelBookingRequest) ToServiceRequest(userID int64) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		UserID:             userID,
		CancellationReason: r.CancellationReason,
	}
}
