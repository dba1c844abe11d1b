package domain

import "time"

// ServiceType distinguishes where a service is performed
type ServiceType string

const (
	ServiceTypeMobile ServiceType = "mobile" // performed at the customer's address by a fleet crew
	ServiceTypeCenter ServiceType = "center" // performed at a wash center
)

// Service is a sellable offering of an organization
// Invariants: DurationMinutes > 0, Price >= 0
type Service struct {
	ID              int64
	OrgID           int64
	Name            string
	Price           float64
	DurationMinutes int
	Type            ServiceType
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsMobile returns true for mobile-type services
func (s *Service) IsMobile() bool {
	return s.Type == ServiceTypeMobile
}

// RequiredResources returns the resource types the allocator must secure
// for a booking of this service
func (s *Service) RequiredResources() []ResourceType {
	if s.IsMobile() {
		return []ResourceType{ResourceEmployee, ResourceFleetVehicle}
	}
	return []ResourceType{ResourceWashCenter, ResourceEmployee}
}
