package service

import (
	"errors"

	"taxipark/storage"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrCarWithoutDrivers  = storage.ErrCarWithoutDrivers
	ErrLastDriver         = storage.ErrLastDriver
)
