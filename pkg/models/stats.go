package models

// Stats backs the home page counters.
type Stats struct {
	Drivers       int `json:"num_drivers"`
	Cars          int `json:"num_cars"`
	Manufacturers int `json:"num_manufacturers"`
}
