package models

import "time"

type Car struct {
	ID             int64         `json:"id"`
	Model          string        `json:"model"`
	ManufacturerID int64         `json:"manufacturer_id"`
	Manufacturer   *Manufacturer `json:"manufacturer,omitempty"`
	DriverIDs      []int64       `json:"driver_ids"`
	Drivers        []*Driver     `json:"drivers,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

func (c *Car) String() string {
	return c.Model
}

// HasDriver reports whether driverID is among the car's assigned drivers.
func (c *Car) HasDriver(driverID int64) bool {
	for _, id := range c.DriverIDs {
		if id == driverID {
			return true
		}
	}
	return false
}
