package memory

import (
	"context"
	"sort"
	"time"

	"taxipark/pkg/models"
	"taxipark/storage"
)

type driverStore struct{ *Store }

func (s *driverStore) Create(_ context.Context, d *models.Driver) (*models.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.drivers {
		if existing.Username == d.Username || existing.LicenseNumber == d.LicenseNumber {
			return nil, storage.ErrAlreadyExists
		}
	}

	now := time.Now()
	created := *d
	created.ID = s.newID()
	created.IsActive = true
	created.CreatedAt = now
	created.UpdatedAt = now
	s.drivers[created.ID] = created
	return &created, nil
}

func (s *driverStore) UpdateLicenseNumber(_ context.Context, id int64, licenseNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for otherID, other := range s.drivers {
		if otherID != id && other.LicenseNumber == licenseNumber {
			return storage.ErrAlreadyExists
		}
	}
	d, ok := s.drivers[id]
	if !ok {
		return nil
	}
	d.LicenseNumber = licenseNumber
	d.UpdatedAt = time.Now()
	s.drivers[id] = d
	return nil
}

func (s *driverStore) GetByID(_ context.Context, id int64) (*models.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drivers[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *driverStore) find(match func(models.Driver) bool) *models.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.drivers {
		if match(d) {
			d := d
			return &d
		}
	}
	return nil
}

func (s *driverStore) GetByUsername(_ context.Context, username string) (*models.Driver, error) {
	return s.find(func(d models.Driver) bool { return d.Username == username }), nil
}

func (s *driverStore) GetByLicenseNumber(_ context.Context, licenseNumber string) (*models.Driver, error) {
	return s.find(func(d models.Driver) bool { return d.LicenseNumber == licenseNumber }), nil
}

func (s *driverStore) GetByIDs(_ context.Context, ids []int64) ([]*models.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.driversByIDs(ids), nil
}

// driversByIDs expects the read lock to be held.
func (s *Store) driversByIDs(ids []int64) []*models.Driver {
	var list []*models.Driver
	for _, id := range ids {
		if d, ok := s.drivers[id]; ok {
			list = append(list, &d)
		}
	}
	sortDrivers(list)
	return list
}

func sortDrivers(list []*models.Driver) {
	sort.Slice(list, func(i, j int) bool { return list[i].Username < list[j].Username })
}

func (s *driverStore) GetAll(ctx context.Context) ([]*models.Driver, error) {
	list, _, err := s.GetList(ctx, models.ListRequest{})
	return list, err
}

func (s *driverStore) GetList(_ context.Context, req models.ListRequest) ([]*models.Driver, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*models.Driver
	for _, d := range s.drivers {
		if matches(d.Username, req.Search) {
			d := d
			list = append(list, &d)
		}
	}
	sortDrivers(list)
	return paginate(list, req), len(list), nil
}

func (s *driverStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drivers, id)
	for _, set := range s.carDrivers {
		delete(set, id)
	}
	for token, sess := range s.sessions {
		if sess.DriverID == id {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *driverStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drivers), nil
}
