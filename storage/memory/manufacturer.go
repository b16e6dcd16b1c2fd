package memory

import (
	"context"
	"sort"
	"time"

	"taxipark/pkg/models"
)

type manufacturerStore struct{ *Store }

func (s *manufacturerStore) Create(_ context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := models.Manufacturer{ID: s.newID(), Name: m.Name, Country: m.Country, CreatedAt: time.Now()}
	s.manufacturers[created.ID] = created
	return &created, nil
}

func (s *manufacturerStore) Update(_ context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.manufacturers[m.ID]
	if !ok {
		return nil, nil
	}
	existing.Name = m.Name
	existing.Country = m.Country
	s.manufacturers[m.ID] = existing
	return &existing, nil
}

func (s *manufacturerStore) GetByID(_ context.Context, id int64) (*models.Manufacturer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.manufacturers[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *manufacturerStore) GetAll(ctx context.Context) ([]*models.Manufacturer, error) {
	list, _, err := s.GetList(ctx, models.ListRequest{})
	return list, err
}

func (s *manufacturerStore) GetList(_ context.Context, req models.ListRequest) ([]*models.Manufacturer, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*models.Manufacturer
	for _, m := range s.manufacturers {
		if matches(m.Name, req.Search) {
			m := m
			list = append(list, &m)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return paginate(list, req), len(list), nil
}

func (s *manufacturerStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.manufacturers, id)
	for carID, c := range s.cars {
		if c.ManufacturerID == id {
			delete(s.cars, carID)
			delete(s.carDrivers, carID)
		}
	}
	return nil
}

func (s *manufacturerStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.manufacturers), nil
}
