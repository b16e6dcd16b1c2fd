package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"taxipark/pkg/models"
	"taxipark/storage"
)

var errForeignKey = errors.New("memory: referenced record does not exist")

type carStore struct{ *Store }

// checkRefs expects the write lock to be held.
func (s *carStore) checkRefs(c *models.Car) error {
	if len(c.DriverIDs) == 0 {
		return storage.ErrCarWithoutDrivers
	}
	if _, ok := s.manufacturers[c.ManufacturerID]; !ok {
		return errForeignKey
	}
	for _, id := range c.DriverIDs {
		if _, ok := s.drivers[id]; !ok {
			return errForeignKey
		}
	}
	return nil
}

func (s *carStore) setDrivers(carID int64, ids []int64) {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	s.carDrivers[carID] = set
}

func (s *carStore) Create(ctx context.Context, c *models.Car) (*models.Car, error) {
	s.mu.Lock()
	if err := s.checkRefs(c); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	stored := models.Car{ID: s.newID(), Model: c.Model, ManufacturerID: c.ManufacturerID, CreatedAt: time.Now()}
	s.cars[stored.ID] = stored
	s.setDrivers(stored.ID, c.DriverIDs)
	s.mu.Unlock()

	return s.GetByID(ctx, stored.ID)
}

func (s *carStore) Update(ctx context.Context, c *models.Car) (*models.Car, error) {
	s.mu.Lock()
	stored, ok := s.cars[c.ID]
	if !ok {
		s.mu.Unlock()
		return nil, nil
	}
	if err := s.checkRefs(c); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	stored.Model = c.Model
	stored.ManufacturerID = c.ManufacturerID
	s.cars[c.ID] = stored
	s.setDrivers(c.ID, c.DriverIDs)
	s.mu.Unlock()

	return s.GetByID(ctx, c.ID)
}

// hydrate expects the read lock to be held.
func (s *carStore) hydrate(c models.Car, withDrivers bool) *models.Car {
	if m, ok := s.manufacturers[c.ManufacturerID]; ok {
		c.Manufacturer = &m
	}
	c.DriverIDs = sortedIDs(s.carDrivers[c.ID])
	if withDrivers {
		c.Drivers = s.driversByIDs(c.DriverIDs)
	}
	return &c
}

func (s *carStore) GetByID(_ context.Context, id int64) (*models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cars[id]
	if !ok {
		return nil, nil
	}
	return s.hydrate(c, true), nil
}

func (s *carStore) filter(match func(models.Car) bool) []*models.Car {
	var list []*models.Car
	for _, c := range s.cars {
		if match(c) {
			list = append(list, s.hydrate(c, false))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Model != list[j].Model {
			return list[i].Model < list[j].Model
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (s *carStore) GetList(_ context.Context, req models.ListRequest) ([]*models.Car, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.filter(func(c models.Car) bool { return matches(c.Model, req.Search) })
	return paginate(list, req), len(list), nil
}

func (s *carStore) GetByDriver(_ context.Context, driverID int64) ([]*models.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filter(func(c models.Car) bool {
		_, ok := s.carDrivers[c.ID][driverID]
		return ok
	}), nil
}

func (s *carStore) AddDriver(_ context.Context, carID, driverID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cars[carID]; !ok {
		return errForeignKey
	}
	if _, ok := s.drivers[driverID]; !ok {
		return errForeignKey
	}
	s.carDrivers[carID][driverID] = struct{}{}
	return nil
}

func (s *carStore) RemoveDriver(_ context.Context, carID, driverID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.carDrivers[carID]
	if _, ok := set[driverID]; !ok {
		return nil
	}
	if len(set) == 1 {
		return storage.ErrLastDriver
	}
	delete(set, driverID)
	return nil
}

func (s *carStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.cars, id)
	delete(s.carDrivers, id)
	return nil
}

func (s *carStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cars), nil
}
