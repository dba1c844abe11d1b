package domain

import "time"

// ResourceType identifies what kind of allocable resource a record is
type ResourceType string

const (
	ResourceWashCenter   ResourceType = "wash_center"
	ResourceEmployee     ResourceType = "employee"
	ResourceFleetVehicle ResourceType = "fleet_vehicle"
)

// Resource is anything allocable to a booking with a finite-capacity schedule:
// a wash center, an employee or a fleet vehicle. All three live in one table
// keyed by ID; type-specific attributes are optional columns
type Resource struct {
	ID     int64
	OrgID  int64
	Type   ResourceType
	Name   string
	Active bool

	// Wash center attributes
	Address *string

	// Employee attributes
	Email *string
	Phone *string

	// Fleet vehicle attributes
	LicensePlate *string
	Brand        *string
	Model        *string
	Year         *int

	// Operating window within a day, "HH:MM" local to UTC schedule
	OpenTime  string
	CloseTime string

	LastBookedAt *time.Time // when the resource was last assigned to a booking

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseResourceType validates a raw resource type string
func ParseResourceType(s string) (ResourceType, bool) {
	switch ResourceType(s) {
	case ResourceWashCenter, ResourceEmployee, ResourceFleetVehicle:
		return ResourceType(s), true
	}
	return "", false
}
