package forms

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"taxipark/pkg/models"
)

// ManufacturerFinder resolves a manufacturer reference; nil, nil means absent.
type ManufacturerFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Manufacturer, error)
}

type Car struct {
	Model          string  `form:"model" validate:"required,max=255"`
	ManufacturerID int64   `form:"manufacturer" validate:"-"`
	DriverIDs      []int64 `form:"drivers" validate:"-"`
}

// BindCar validates a car submission: model is required, manufacturer must
// name an existing record and drivers must be a non-empty set of existing
// drivers.
func BindCar(ctx context.Context, values url.Values, manufacturers ManufacturerFinder, drivers DriverFinder) (*Car, Errors, error) {
	form := &Car{
		Model: strings.TrimSpace(values.Get("model")),
	}

	errs := Errors{}
	checkStruct(form, errs)

	if err := bindManufacturer(ctx, form, values.Get("manufacturer"), manufacturers, errs); err != nil {
		return nil, nil, err
	}
	if err := bindDrivers(ctx, form, values["drivers"], drivers, errs); err != nil {
		return nil, nil, err
	}

	return form, errs, nil
}

func bindManufacturer(ctx context.Context, form *Car, raw string, manufacturers ManufacturerFinder, errs Errors) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.Add("manufacturer", msgRequired)
		return nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errs.Add("manufacturer", msgInvalidChoice)
		return nil
	}

	m, err := manufacturers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		errs.Add("manufacturer", msgInvalidChoice)
		return nil
	}

	form.ManufacturerID = id
	return nil
}

func bindDrivers(ctx context.Context, form *Car, raw []string, drivers DriverFinder, errs Errors) error {
	seen := make(map[int64]struct{}, len(raw))
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			errs.Add("drivers", "“"+r+"” is not a valid value.")
			return nil
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		errs.Add("drivers", msgRequired)
		return nil
	}

	found, err := drivers.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[int64]struct{}, len(found))
	for _, d := range found {
		known[d.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			errs.Add("drivers", "Select a valid choice. "+strconv.FormatInt(id, 10)+" is not one of the available choices.")
			return nil
		}
	}

	form.DriverIDs = ids
	return nil
}
