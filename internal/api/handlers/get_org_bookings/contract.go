package get_org_bookings

import (
	"context"

	"github.com/m04kA/CWP-AllocationService/internal/service/bookings/models"
)

type BookingService interface {
	GetOrgBookings(ctx context.Context, req *models.GetOrgBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
