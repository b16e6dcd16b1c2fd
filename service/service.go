package service

import (
	"taxipark/config"
	"taxipark/pkg/logger"
	"taxipark/pkg/notify"
	"taxipark/storage"
)

type IServiceManager interface {
	Manufacturer() ManufacturerService
	Driver() DriverService
	Car() CarService
	Auth() AuthService
	Stats() StatsService
}

type service struct {
	manufacturerService ManufacturerService
	driverService       DriverService
	carService          CarService
	authService         AuthService
	statsService        StatsService
}

func New(cfg config.Config, stg storage.IStorage, notifier notify.Notifier, log logger.ILogger) IServiceManager {
	return &service{
		manufacturerService: NewManufacturerService(cfg, stg, log),
		driverService:       NewDriverService(cfg, stg, notifier, log),
		carService:          NewCarService(cfg, stg, notifier, log),
		authService:         NewAuthService(cfg, stg, log),
		statsService:        NewStatsService(stg),
	}
}

func (s *service) Manufacturer() ManufacturerService {
	return s.manufacturerService
}

func (s *service) Driver() DriverService {
	return s.driverService
}

func (s *service) Car() CarService {
	return s.carService
}

func (s *service) Auth() AuthService {
	return s.authService
}

func (s *service) Stats() StatsService {
	return s.statsService
}
