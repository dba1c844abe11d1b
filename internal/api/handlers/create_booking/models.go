package create_booking

import (
	"time"

	createBooking "github.com/m04kA/CWP-AllocationService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	OrgID             int64   `json:"orgId"`
	ServiceID         int64   `json:"serviceId"`
	CustomerVehicleID int64   `json:"customerVehicleId"`
	WashCenterID      *int64  `json:"washCenterId,omitempty"`
	ScheduledStart    string  `json:"scheduledStart"` // RFC3339, например "2026-09-15T10:00:00Z"
	Address           *string `json:"address,omitempty"`
	CustomerName      string  `json:"customerName"`
	CustomerEmail     *string `json:"customerEmail,omitempty"`
	CustomerPhone     *string `json:"customerPhone,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                int64   `json:"id"`
	OrgID             int64   `json:"orgId"`
	UserID            int64   `json:"userId"`
	ServiceID         int64   `json:"serviceId"`
	CustomerVehicleID int64   `json:"customerVehicleId"`
	WashCenterID      *int64  `json:"washCenterId,omitempty"`
	EmployeeID        *int64  `json:"employeeId,omitempty"`
	FleetVehicleID    *int64  `json:"fleetVehicleId,omitempty"`
	ScheduledStart    string  `json:"scheduledStart"`
	ScheduledEnd      string  `json:"scheduledEnd"`
	Status            string  `json:"status"`
	TotalPrice        float64 `json:"totalPrice"`
	ServiceName       string  `json:"serviceName"`
	ServiceType       string  `json:"serviceType"`
	Address           *string `json:"address,omitempty"`
	VehiclePlate      *string `json:"vehiclePlate,omitempty"`
	VehicleBrand      *string `json:"vehicleBrand,omitempty"`
	VehicleModel      *string `json:"vehicleModel,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	scheduledStart, err := time.Parse(time.RFC3339, r.ScheduledStart)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		OrgID:             r.OrgID,
		UserID:            userID,
		ServiceID:         r.ServiceID,
		CustomerVehicleID: r.CustomerVehicleID,
		WashCenterID:      r.WashCenterID,
		ScheduledStart:    scheduledStart,
		Address:           r.Address,
		CustomerName:      r.CustomerName,
		CustomerEmail:     r.CustomerEmail,
		CustomerPhone:     r.CustomerPhone,
		Notes:             r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                resp.ID,
		OrgID:             resp.OrgID,
		UserID:            resp.UserID,
		ServiceID:         resp.ServiceID,
		CustomerVehicleID: resp.CustomerVehicleID,
		WashCenterID:      resp.WashCenterID,
		EmployeeID:        resp.EmployeeID,
		FleetVehicleID:    resp.FleetVehicleID,
		ScheduledStart:    resp.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:      resp.ScheduledEnd.Format(time.RFC3339),
		Status:            resp.Status,
		TotalPrice:        resp.TotalPrice,
		ServiceName:       resp.ServiceName,
		ServiceType:       resp.ServiceType,
		Address:           resp.Address,
		VehiclePlate:      resp.VehiclePlate,
		VehicleBrand:      resp.VehicleBrand,
		VehicleModel:      resp.VehicleModel,
		Notes:             resp.Notes,
		CreatedAt:         resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         resp.UpdatedAt.Format(time.RFC3339),
	}
}
