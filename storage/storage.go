package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"taxipark/pkg/models"
)

// ErrAlreadyExists is returned when a write violates a unique constraint
// (username, license number).
var ErrAlreadyExists = errors.New("storage: record already exists")

var (
	// ErrCarWithoutDrivers is returned when a car is written with no drivers.
	ErrCarWithoutDrivers = errors.New("storage: a car needs at least one driver")
	// ErrLastDriver is returned by RemoveDriver when driverID is the car's only driver.
	ErrLastDriver = errors.New("storage: cannot remove the last driver of a car")
)

type IStorage interface {
	Manufacturer() IManufacturerStorage
	Driver() IDriverStorage
	Car() ICarStorage
	Session() ISessionStorage
	Truncate(ctx context.Context) error
	Close()
}

type IManufacturerStorage interface {
	Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	GetByID(ctx context.Context, id int64) (*models.Manufacturer, error)
	GetAll(ctx context.Context) ([]*models.Manufacturer, error)
	GetList(ctx context.Context, req models.ListRequest) ([]*models.Manufacturer, int, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type IDriverStorage interface {
	Create(ctx context.Context, d *models.Driver) (*models.Driver, error)
	UpdateLicenseNumber(ctx context.Context, id int64, licenseNumber string) error
	GetByID(ctx context.Context, id int64) (*models.Driver, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Driver, error)
	GetByUsername(ctx context.Context, username string) (*models.Driver, error)
	GetByLicenseNumber(ctx context.Context, licenseNumber string) (*models.Driver, error)
	GetAll(ctx context.Context) ([]*models.Driver, error)
	GetList(ctx context.Context, req models.ListRequest) ([]*models.Driver, int, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// ICarStorage returns cars with Manufacturer and DriverIDs populated; GetByID
// also fills Drivers. Create and Update reject an empty driver set, and
// RemoveDriver never leaves a car without drivers; both checks are atomic with
// the write.
type ICarStorage interface {
	Create(ctx context.Context, c *models.Car) (*models.Car, error)
	Update(ctx context.Context, c *models.Car) (*models.Car, error)
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	GetList(ctx context.Context, req models.ListRequest) ([]*models.Car, int, error)
	GetByDriver(ctx context.Context, driverID int64) ([]*models.Car, error)
	AddDriver(ctx context.Context, carID, driverID int64) error
	RemoveDriver(ctx context.Context, carID, driverID int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type ISessionStorage interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, token uuid.UUID) (*models.Session, error)
	IncrementVisits(ctx context.Context, token uuid.UUID) (int, error)
	Delete(ctx context.Context, token uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
