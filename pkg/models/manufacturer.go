package models

import "time"

type Manufacturer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *Manufacturer) String() string {
	return m.Name + " " + m.Country
}
