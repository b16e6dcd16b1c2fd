package service

import (
	"context"

	"taxipark/pkg/models"
	"taxipark/storage"
)

type StatsService interface {
	Counts(ctx context.Context) (*models.Stats, error)
}

type statsService struct {
	stg storage.IStorage
}

func NewStatsService(stg storage.IStorage) StatsService {
	return &statsService{stg: stg}
}

func (s *statsService) Counts(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	var err error

	if stats.Drivers, err = s.stg.Driver().Count(ctx); err != nil {
		return nil, err
	}
	if stats.Cars, err = s.stg.Car().Count(ctx); err != nil {
		return nil, err
	}
	if stats.Manufacturers, err = s.stg.Manufacturer().Count(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
