package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxipark/pkg/models"
	"taxipark/storage"
)

func seed(t *testing.T, s *Store) (*models.Manufacturer, *models.Driver, *models.Driver) {
	t.Helper()
	ctx := context.Background()

	m, err := s.Manufacturer().Create(ctx, &models.Manufacturer{Name: "Toyota", Country: "Japan"})
	require.NoError(t, err)
	d1, err := s.Driver().Create(ctx, &models.Driver{Username: "bob", LicenseNumber: "BOB12345"})
	require.NoError(t, err)
	d2, err := s.Driver().Create(ctx, &models.Driver{Username: "alice", LicenseNumber: "ALI12345"})
	require.NoError(t, err)
	return m, d1, d2
}

func TestManufacturerStore_ListSearchAndPaging(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, name := range []string{"Volvo", "Audi", "BMW", "Volkswagen"} {
		_, err := s.Manufacturer().Create(ctx, &models.Manufacturer{Name: name, Country: "EU"})
		require.NoError(t, err)
	}

	list, total, err := s.Manufacturer().GetList(ctx, models.ListRequest{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, list, 2)
	assert.Equal(t, "Audi", list[0].Name)
	assert.Equal(t, "BMW", list[1].Name)

	list, total, err = s.Manufacturer().GetList(ctx, models.ListRequest{Search: "vol", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Volkswagen", list[0].Name)

	list, _, err = s.Manufacturer().GetList(ctx, models.ListRequest{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestManufacturerStore_UpdateMissing(t *testing.T) {
	s := New()
	got, err := s.Manufacturer().Update(context.Background(), &models.Manufacturer{ID: 99, Name: "x"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDriverStore_Uniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, d1, d2 := seed(t, s)

	_, err := s.Driver().Create(ctx, &models.Driver{Username: "bob", LicenseNumber: "NEW12345"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	err = s.Driver().UpdateLicenseNumber(ctx, d1.ID, d2.LicenseNumber)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	require.NoError(t, s.Driver().UpdateLicenseNumber(ctx, d1.ID, "BOB99999"))
	got, err := s.Driver().GetByLicenseNumber(ctx, "BOB99999")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d1.ID, got.ID)
}

func TestDriverStore_GetByIDsSortedByUsername(t *testing.T) {
	s := New()
	_, d1, d2 := seed(t, s)

	list, err := s.Driver().GetByIDs(context.Background(), []int64{d1.ID, d2.ID, 404})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)
	assert.Equal(t, "bob", list[1].Username)
}

func TestCarStore_CreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()
	m, d1, d2 := seed(t, s)

	car, err := s.Car().Create(ctx, &models.Car{Model: "Camry", ManufacturerID: m.ID, DriverIDs: []int64{d1.ID, d2.ID}})
	require.NoError(t, err)
	require.NotNil(t, car.Manufacturer)
	assert.Equal(t, "Toyota", car.Manufacturer.Name)
	assert.ElementsMatch(t, []int64{d1.ID, d2.ID}, car.DriverIDs)
	require.Len(t, car.Drivers, 2)

	byDriver, err := s.Car().GetByDriver(ctx, d1.ID)
	require.NoError(t, err)
	require.Len(t, byDriver, 1)
	assert.Equal(t, car.ID, byDriver[0].ID)
}

func TestCarStore_CreateRejectsUnknownManufacturer(t *testing.T) {
	s := New()
	_, d1, _ := seed(t, s)

	_, err := s.Car().Create(context.Background(), &models.Car{Model: "Ghost", ManufacturerID: 999, DriverIDs: []int64{d1.ID}})
	assert.Error(t, err)
}

func TestCarStore_AssignAndCascade(t *testing.T) {
	s := New()
	ctx := context.Background()
	m, d1, d2 := seed(t, s)

	car, err := s.Car().Create(ctx, &models.Car{Model: "Camry", ManufacturerID: m.ID, DriverIDs: []int64{d1.ID}})
	require.NoError(t, err)

	require.NoError(t, s.Car().AddDriver(ctx, car.ID, d2.ID))
	require.NoError(t, s.Car().RemoveDriver(ctx, car.ID, d1.ID))
	got, err := s.Car().GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{d2.ID}, got.DriverIDs)

	require.NoError(t, s.Driver().Delete(ctx, d2.ID))
	got, err = s.Car().GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DriverIDs)

	require.NoError(t, s.Manufacturer().Delete(ctx, m.ID))
	got, err = s.Car().GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, d1, _ := seed(t, s)

	live := &models.Session{Token: uuid.New(), DriverID: d1.ID, ExpiresAt: time.Now().Add(time.Hour)}
	dead := &models.Session{Token: uuid.New(), DriverID: d1.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, s.Session().Create(ctx, live))
	require.NoError(t, s.Session().Create(ctx, dead))

	visits, err := s.Session().IncrementVisits(ctx, live.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, visits)

	n, err := s.Session().DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Session().Get(ctx, dead.Token)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Session().Delete(ctx, live.Token))
	got, err = s.Session().Get(ctx, live.Token)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Truncate(t *testing.T) {
	s := New()
	ctx := context.Background()
	seed(t, s)

	require.NoError(t, s.Truncate(ctx))
	n, err := s.Driver().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCarStore_RequiresDrivers(t *testing.T) {
	s := New()
	ctx := context.Background()
	m, d1, _ := seed(t, s)

	_, err := s.Car().Create(ctx, &models.Car{Model: "Camry", ManufacturerID: m.ID})
	assert.ErrorIs(t, err, storage.ErrCarWithoutDrivers)

	car, err := s.Car().Create(ctx, &models.Car{Model: "Camry", ManufacturerID: m.ID, DriverIDs: []int64{d1.ID}})
	require.NoError(t, err)

	_, err = s.Car().Update(ctx, &models.Car{ID: car.ID, Model: "Camry", ManufacturerID: m.ID})
	assert.ErrorIs(t, err, storage.ErrCarWithoutDrivers)
}

func TestCarStore_RemoveDriverKeepsLast(t *testing.T) {
	s := New()
	ctx := context.Background()
	m, d1, d2 := seed(t, s)

	car, err := s.Car().Create(ctx, &models.Car{Model: "Camry", ManufacturerID: m.ID, DriverIDs: []int64{d1.ID, d2.ID}})
	require.NoError(t, err)

	errs := make(chan error, 2)
	for _, id := range []int64{d1.ID, d2.ID} {
		go func(id int64) { errs <- s.Car().RemoveDriver(ctx, car.ID, id) }(id)
	}
	first, second := <-errs, <-errs
	assert.ElementsMatch(t, []error{nil, storage.ErrLastDriver}, []error{first, second})

	got, err := s.Car().GetByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Len(t, got.DriverIDs, 1)

	// removing a driver who is not assigned is a no-op
	assert.NoError(t, s.Car().RemoveDriver(ctx, car.ID, 999))
}
