package register_resource

import (
	"time"

	"github.com/m04kA/CWP-AllocationService/internal/domain"
)

// RegisterResourceRequest HTTP request model
type RegisterResourceRequest struct {
	Type string `json:"type"` // wash_center | employee | fleet_vehicle
	Name string `json:"name"`

	// Атрибуты мойки
	Address *string `json:"address,omitempty"`

	// Атрибуты сотрудника
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`

	// Атрибуты автомобиля автопарка
	LicensePlate *string `json:"licensePlate,omitempty"`
	Brand        *string `json:"brand,omitempty"`
	Model        *string `json:"model,omitempty"`
	Year         *int    `json:"year,omitempty"`

	// Рабочее окно "HH:MM"; пустые значения заменяются дефолтами
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// ResourceResponse HTTP response model
type ResourceResponse struct {
	ID           int64   `json:"id"`
	OrgID        int64   `json:"orgId"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	Active       bool    `json:"active"`
	Address      *string `json:"address,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
	Brand        *string `json:"brand,omitempty"`
	Model        *string `json:"model,omitempty"`
	Year         *int    `json:"year,omitempty"`
	OpenTime     string  `json:"openTime"`
	CloseTime    string  `json:"closeTime"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ToDomainResource конвертирует HTTP request в domain модель
func (r *RegisterResourceRequest) ToDomainResource(orgID int64) *domain.Resource {
	return &domain.Resource{
		OrgID:        orgID,
		Type:         domain.ResourceType(r.Type),
		Name:         r.Name,
		Address:      r.Address,
		Email:        r.Email,
		Phone:        r.Phone,
		LicensePlate: r.LicensePlate,
		Brand:        r.Brand,
		Model:        r.Model,
		Year:         r.Year,
		OpenTime:     r.OpenTime,
		CloseTime:    r.CloseTime,
	}
}

// FromDomainResource конвертирует domain модель в HTTP response
func FromDomainResource(res *domain.Resource) *ResourceResponse {
	return &ResourceResponse{
		ID:           res.ID,
		OrgID:        res.OrgID,
		Type:         string(res.Type),
		Name:         res.Name,
		Active:       res.Active,
		Address:      res.Address,
		Email:        res.Email,
		Phone:        res.Phone,
		LicensePlate: res.LicensePlate,
		Brand:        res.Brand,
		Model:        res.Model,
		Year:         res.Year,
		OpenTime:     res.OpenTime,
		CloseTime:    res.CloseTime,
		CreatedAt:    res.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    res.UpdatedAt.Format(time.RFC3339),
	}
}
