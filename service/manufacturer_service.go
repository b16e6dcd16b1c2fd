package service

import (
	"context"
	"net/url"

	"taxipark/config"
	"taxipark/pkg/forms"
	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/storage"
)

type ManufacturerService interface {
	Create(ctx context.Context, values url.Values) (*models.Manufacturer, forms.Errors, error)
	Update(ctx context.Context, id int64, values url.Values) (*models.Manufacturer, forms.Errors, error)
	Get(ctx context.Context, id int64) (*models.Manufacturer, error)
	GetAll(ctx context.Context) ([]*models.Manufacturer, error)
	List(ctx context.Context, search forms.Search) (*ListResult[*models.Manufacturer], error)
	Delete(ctx context.Context, id int64) error
}

type manufacturerService struct {
	stg      storage.IManufacturerStorage
	log      logger.ILogger
	pageSize int
}

func NewManufacturerService(cfg config.Config, stg storage.IStorage, log logger.ILogger) ManufacturerService {
	return &manufacturerService{
		stg:      stg.Manufacturer(),
		log:      log,
		pageSize: cfg.PageSize,
	}
}

func (s *manufacturerService) Create(ctx context.Context, values url.Values) (*models.Manufacturer, forms.Errors, error) {
	form, errs := forms.BindManufacturer(values)
	if !errs.Valid() {
		return nil, errs, nil
	}

	m, err := s.stg.Create(ctx, &models.Manufacturer{Name: form.Name, Country: form.Country})
	if err != nil {
		return nil, nil, err
	}
	s.log.Info("manufacturer created", logger.Int64("id", m.ID), logger.String("name", m.Name))
	return m, nil, nil
}

func (s *manufacturerService) Update(ctx context.Context, id int64, values url.Values) (*models.Manufacturer, forms.Errors, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, nil, err
	}

	form, errs := forms.BindManufacturer(values)
	if !errs.Valid() {
		return nil, errs, nil
	}

	m, err := s.stg.Update(ctx, &models.Manufacturer{ID: id, Name: form.Name, Country: form.Country})
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, ErrNotFound
	}
	return m, nil, nil
}

func (s *manufacturerService) Get(ctx context.Context, id int64) (*models.Manufacturer, error) {
	m, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *manufacturerService) GetAll(ctx context.Context) ([]*models.Manufacturer, error) {
	return s.stg.GetAll(ctx)
}

func (s *manufacturerService) List(ctx context.Context, search forms.Search) (*ListResult[*models.Manufacturer], error) {
	return paginate(ctx, s.stg.GetList, search, s.pageSize)
}

func (s *manufacturerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.stg.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("manufacturer deleted", logger.Int64("id", id))
	return nil
}
