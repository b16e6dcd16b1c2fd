package forms

import (
	"context"
	"errors"

	"taxipark/pkg/models"
)

var errLookup = errors.New("lookup failed")

type fakeManufacturers struct {
	byID map[int64]*models.Manufacturer
	err  error
}

func (f *fakeManufacturers) GetByID(_ context.Context, id int64) (*models.Manufacturer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

type fakeDrivers struct {
	list []*models.Driver
	err  error
}

func (f *fakeDrivers) GetByIDs(_ context.Context, ids []int64) ([]*models.Driver, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Driver
	for _, d := range f.list {
		for _, id := range ids {
			if d.ID == id {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func (f *fakeDrivers) GetByUsername(_ context.Context, username string) (*models.Driver, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.list {
		if d.Username == username {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDrivers) GetByLicenseNumber(_ context.Context, licenseNumber string) (*models.Driver, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.list {
		if d.LicenseNumber == licenseNumber {
			return d, nil
		}
	}
	return nil, nil
}
