// Package memory is an in-process implementation of storage.IStorage. It keeps
// the same ordering, search and cascade rules as the Postgres schema so the
// service and HTTP layers can be exercised without a database.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"taxipark/pkg/models"
	"taxipark/storage"
)

// Ensure Store implements the interface.
var _ storage.IStorage = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	manufacturers map[int64]models.Manufacturer
	drivers       map[int64]models.Driver
	cars          map[int64]models.Car
	carDrivers    map[int64]map[int64]struct{}
	sessions      map[uuid.UUID]models.Session

	nextID int64
}

func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.manufacturers = make(map[int64]models.Manufacturer)
	s.drivers = make(map[int64]models.Driver)
	s.cars = make(map[int64]models.Car)
	s.carDrivers = make(map[int64]map[int64]struct{})
	s.sessions = make(map[uuid.UUID]models.Session)
	s.nextID = 0
}

func (s *Store) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Manufacturer() storage.IManufacturerStorage { return &manufacturerStore{s} }
func (s *Store) Driver() storage.IDriverStorage             { return &driverStore{s} }
func (s *Store) Car() storage.ICarStorage                   { return &carStore{s} }
func (s *Store) Session() storage.ISessionStorage           { return &sessionStore{s} }

func (s *Store) Truncate(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *Store) Close() {}

func matches(value, search string) bool {
	return search == "" || strings.Contains(strings.ToLower(value), strings.ToLower(search))
}

// paginate applies req's offset and limit (0 = unlimited) to an ordered slice.
func paginate[T any](items []T, req models.ListRequest) []T {
	if req.Offset >= len(items) {
		return nil
	}
	items = items[req.Offset:]
	if req.Limit > 0 && req.Limit < len(items) {
		items = items[:req.Limit]
	}
	return items
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
