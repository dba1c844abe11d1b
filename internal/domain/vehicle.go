package domain

import "time"

// CustomerVehicle is a customer's own vehicle, owned by a user
type CustomerVehicle struct {
	ID           int64
	UserID       int64
	LicensePlate string
	Brand        string
	Model        string
	Year         *int
	Color        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Info returns a short human-readable description for notifications
func (v *CustomerVehicle) Info() string {
	return v.Brand + " " + v.Model + " - " + v.LicensePlate
}
