package models

import "time"

// Driver is the account record: every logged-in user is a driver.
type Driver struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	LicenseNumber string    `json:"license_number"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (d *Driver) String() string {
	return d.Username + " (" + d.FirstName + " " + d.LastName + ")"
}

// DriverDetail is a driver together with the cars assigned to them.
type DriverDetail struct {
	Driver *Driver `json:"driver"`
	Cars   []*Car  `json:"cars"`
}
