package models

import (
	"errors"
	"time"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetOrgBookingsRequest запрос на получение бронирований организации
type GetOrgBookingsRequest struct {
	OrgID           int64      `json:"orgId"`
	ResourceID      *int64     `json:"resourceId,omitempty"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetOrgBookingsRequest) ToDomainFilter() (domain.OrgBookingsFilter, error) {
	filter := domain.OrgBookingsFilter{
		OrgID:           r.OrgID,
		ResourceID:      r.ResourceID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return domain.OrgBookingsFilter{}, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse представление бронирования для вызывающих слоёв
type BookingResponse struct {
	ID                int64      `json:"id"`
	OrgID             int64      `json:"orgId"`
	UserID            int64      `json:"userId"`
	ServiceID         int64      `json:"serviceId"`
	CustomerVehicleID int64      `json:"customerVehicleId"`
	WashCenterID      *int64     `json:"washCenterId,omitempty"`
	EmployeeID        *int64     `json:"employeeId,omitempty"`
	FleetVehicleID    *int64     `json:"fleetVehicleId,omitempty"`
	ScheduledStart    time.Time  `json:"scheduledStart"`
	ScheduledEnd      time.Time  `json:"scheduledEnd"`
	Status            string     `json:"status"`
	TotalPrice        float64    `json:"totalPrice"`
	Address           *string    `json:"address,omitempty"`
	ServiceName       string     `json:"serviceName"`
	ServiceType       string     `json:"serviceType"`
	CustomerName      string     `json:"customerName"`
	VehiclePlate      *string    `json:"vehiclePlate,omitempty"`
	VehicleBrand      *string    `json:"vehicleBrand,omitempty"`
	VehicleModel      *string    `json:"vehicleModel,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	CanceledAt        *time.Time `json:"canceledAt,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBooking конвертирует domain бронирование в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                 b.ID,
		OrgID:              b.OrgID,
		UserID:             b.UserID,
		ServiceID:          b.ServiceID,
		CustomerVehicleID:  b.CustomerVehicleID,
		WashCenterID:       b.WashCenterID,
		EmployeeID:         b.EmployeeID,
		FleetVehicleID:     b.FleetVehicleID,
		ScheduledStart:     b.ScheduledStart,
		ScheduledEnd:       b.ScheduledEnd,
		Status:             string(b.Status),
		TotalPrice:         b.TotalPrice,
		Address:            b.Address,
		ServiceName:        b.ServiceName,
		ServiceType:        string(b.ServiceType),
		CustomerName:       b.CustomerName,
		VehiclePlate:       b.VehiclePlate,
		VehicleBrand:       b.VehicleBrand,
		VehicleModel:       b.VehicleModel,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CanceledAt:         b.CanceledAt,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain бронирований в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	out := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = FromDomainBooking(b)
	}
	return &BookingListResponse{Bookings: out, Total: len(out)}
}

// ToDomainBookingStatus валидирует и конвертирует строковый статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status, ok := domain.ParseBookingStatus(s)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}
