package models

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Token     uuid.UUID `json:"token"`
	DriverID  int64     `json:"driver_id"`
	Visits    int       `json:"visits"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
