package service

import (
	"context"
	"errors"
	"net/url"

	"taxipark/config"
	"taxipark/pkg/forms"
	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/pkg/notify"
	"taxipark/pkg/security"
	"taxipark/storage"
)

const msgDriverConflict = "A driver with that username or license number already exists."

type DriverService interface {
	Register(ctx context.Context, values url.Values) (*models.Driver, forms.Errors, error)
	UpdateLicense(ctx context.Context, id int64, values url.Values) (*models.Driver, forms.Errors, error)
	Get(ctx context.Context, id int64) (*models.DriverDetail, error)
	GetAll(ctx context.Context) ([]*models.Driver, error)
	List(ctx context.Context, search forms.Search) (*ListResult[*models.Driver], error)
	Delete(ctx context.Context, id int64) error
}

type driverService struct {
	drivers    storage.IDriverStorage
	cars       storage.ICarStorage
	notifier   notify.Notifier
	log        logger.ILogger
	bcryptCost int
	pageSize   int
}

func NewDriverService(cfg config.Config, stg storage.IStorage, notifier notify.Notifier, log logger.ILogger) DriverService {
	return &driverService{
		drivers:    stg.Driver(),
		cars:       stg.Car(),
		notifier:   notifier,
		log:        log,
		bcryptCost: cfg.BcryptCost,
		pageSize:   cfg.PageSize,
	}
}

func (s *driverService) Register(ctx context.Context, values url.Values) (*models.Driver, forms.Errors, error) {
	form, errs, err := forms.BindDriverCreation(ctx, values, s.drivers)
	if err != nil {
		return nil, nil, err
	}
	if !errs.Valid() {
		return nil, errs, nil
	}

	hash, err := security.HashPassword(form.Password1, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	d, err := s.drivers.Create(ctx, &models.Driver{
		Username:      form.Username,
		PasswordHash:  hash,
		FirstName:     form.FirstName,
		LastName:      form.LastName,
		LicenseNumber: form.LicenseNumber,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		errs.Add(forms.NonFieldErrors, msgDriverConflict)
		return nil, errs, nil
	}
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("driver registered", logger.Int64("id", d.ID), logger.String("username", d.Username))
	if err := s.notifier.Notify(ctx, notify.DriverRegistered(d)); err != nil {
		s.log.Warning("driver notification failed", logger.Error(err))
	}
	return d, nil, nil
}

func (s *driverService) UpdateLicense(ctx context.Context, id int64, values url.Values) (*models.Driver, forms.Errors, error) {
	d, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	form, errs, err := forms.BindDriverLicenseUpdate(ctx, values, s.drivers, id)
	if err != nil {
		return nil, nil, err
	}
	if !errs.Valid() {
		return nil, errs, nil
	}

	err = s.drivers.UpdateLicenseNumber(ctx, id, form.LicenseNumber)
	if errors.Is(err, storage.ErrAlreadyExists) {
		errs.Add("license_number", "Driver with this License number already exists.")
		return nil, errs, nil
	}
	if err != nil {
		return nil, nil, err
	}

	d.LicenseNumber = form.LicenseNumber
	return d, nil, nil
}

func (s *driverService) get(ctx context.Context, id int64) (*models.Driver, error) {
	d, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *driverService) Get(ctx context.Context, id int64) (*models.DriverDetail, error) {
	d, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	cars, err := s.cars.GetByDriver(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.DriverDetail{Driver: d, Cars: cars}, nil
}

func (s *driverService) GetAll(ctx context.Context) ([]*models.Driver, error) {
	return s.drivers.GetAll(ctx)
}

func (s *driverService) List(ctx context.Context, search forms.Search) (*ListResult[*models.Driver], error) {
	return paginate(ctx, s.drivers.GetList, search, s.pageSize)
}

func (s *driverService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.drivers.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("driver deleted", logger.Int64("id", id))
	return nil
}
