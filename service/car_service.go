package service

import (
	"context"
	"net/url"

	"taxipark/config"
	"taxipark/pkg/forms"
	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/pkg/notify"
	"taxipark/storage"
)

type CarService interface {
	Create(ctx context.Context, values url.Values) (*models.Car, forms.Errors, error)
	Update(ctx context.Context, id int64, values url.Values) (*models.Car, forms.Errors, error)
	Get(ctx context.Context, id int64) (*models.Car, error)
	List(ctx context.Context, search forms.Search) (*ListResult[*models.Car], error)
	Delete(ctx context.Context, id int64) error
	// ToggleAssign adds driver to the car's drivers, or removes them if they
	// are already assigned. It reports whether the driver is assigned now.
	ToggleAssign(ctx context.Context, carID int64, driver *models.Driver) (bool, error)
}

type carService struct {
	cars          storage.ICarStorage
	manufacturers storage.IManufacturerStorage
	drivers       storage.IDriverStorage
	notifier      notify.Notifier
	log           logger.ILogger
	pageSize      int
}

func NewCarService(cfg config.Config, stg storage.IStorage, notifier notify.Notifier, log logger.ILogger) CarService {
	return &carService{
		cars:          stg.Car(),
		manufacturers: stg.Manufacturer(),
		drivers:       stg.Driver(),
		notifier:      notifier,
		log:           log,
		pageSize:      cfg.PageSize,
	}
}

func (s *carService) bind(ctx context.Context, values url.Values) (*models.Car, forms.Errors, error) {
	form, errs, err := forms.BindCar(ctx, values, s.manufacturers, s.drivers)
	if err != nil || !errs.Valid() {
		return nil, errs, err
	}
	return &models.Car{
		Model:          form.Model,
		ManufacturerID: form.ManufacturerID,
		DriverIDs:      form.DriverIDs,
	}, nil, nil
}

func (s *carService) Create(ctx context.Context, values url.Values) (*models.Car, forms.Errors, error) {
	car, errs, err := s.bind(ctx, values)
	if err != nil || errs != nil {
		return nil, errs, err
	}

	created, err := s.cars.Create(ctx, car)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("car created", logger.Int64("id", created.ID), logger.String("model", created.Model))
	if err := s.notifier.Notify(ctx, notify.CarCreated(created)); err != nil {
		s.log.Warning("car notification failed", logger.Error(err))
	}
	return created, nil, nil
}

func (s *carService) Update(ctx context.Context, id int64, values url.Values) (*models.Car, forms.Errors, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, nil, err
	}

	car, errs, err := s.bind(ctx, values)
	if err != nil || errs != nil {
		return nil, errs, err
	}

	car.ID = id
	updated, err := s.cars.Update(ctx, car)
	if err != nil {
		return nil, nil, err
	}
	if updated == nil {
		return nil, nil, ErrNotFound
	}
	return updated, nil, nil
}

func (s *carService) Get(ctx context.Context, id int64) (*models.Car, error) {
	c, err := s.cars.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *carService) List(ctx context.Context, search forms.Search) (*ListResult[*models.Car], error) {
	return paginate(ctx, s.cars.GetList, search, s.pageSize)
}

func (s *carService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.cars.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("car deleted", logger.Int64("id", id))
	return nil
}

func (s *carService) ToggleAssign(ctx context.Context, carID int64, driver *models.Driver) (bool, error) {
	car, err := s.Get(ctx, carID)
	if err != nil {
		return false, err
	}

	if car.HasDriver(driver.ID) {
		// the storage refuses to drop the last driver, whatever car says now
		if err := s.cars.RemoveDriver(ctx, carID, driver.ID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.cars.AddDriver(ctx, carID, driver.ID); err != nil {
		return false, err
	}
	return true, nil
}
