package forms

import (
	"context"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"taxipark/pkg/models"
	"taxipark/pkg/validation"
)

const minPasswordLength = 8

const (
	msgUsernameTaken    = "A user with that username already exists."
	msgLicenseTaken     = "Driver with this License number already exists."
	msgPasswordMismatch = "The two password fields didn’t match."
	msgPasswordShort    = "This password is too short. It must contain at least 8 characters."
	msgPasswordNumeric  = "This password is entirely numeric."
	msgPasswordCommon   = "This password is too common."
	msgPasswordSimilar  = "The password is too similar to the username."
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "12345678": {}, "123456789": {},
	"qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "11111111": {},
	"abc12345": {}, "letmein1": {},
}

// DriverFinder is the driver lookup the driver and car forms need.
type DriverFinder interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Driver, error)
	GetByUsername(ctx context.Context, username string) (*models.Driver, error)
	GetByLicenseNumber(ctx context.Context, licenseNumber string) (*models.Driver, error)
}

// DriverCreation is the account-creation form with the driver fields added.
type DriverCreation struct {
	Username      string `form:"username" validate:"required,max=150,username"`
	Password1     string `form:"password1" validate:"required"`
	Password2     string `form:"password2" validate:"required"`
	FirstName     string `form:"first_name" validate:"required,max=150"`
	LastName      string `form:"last_name" validate:"required,max=150"`
	LicenseNumber string `form:"license_number" validate:"required,max=255"`
}

// BindDriverCreation validates a driver sign-up. The returned error is set only
// when a lookup fails; invalid input is reported through Errors.
func BindDriverCreation(ctx context.Context, values url.Values, drivers DriverFinder) (*DriverCreation, Errors, error) {
	form := &DriverCreation{
		Username:      strings.TrimSpace(values.Get("username")),
		Password1:     values.Get("password1"),
		Password2:     values.Get("password2"),
		FirstName:     strings.TrimSpace(values.Get("first_name")),
		LastName:      strings.TrimSpace(values.Get("last_name")),
		LicenseNumber: strings.TrimSpace(values.Get("license_number")),
	}

	errs := Errors{}
	checkStruct(form, errs)

	if !errs.Has("username") {
		existing, err := drivers.GetByUsername(ctx, form.Username)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			errs.Add("username", msgUsernameTaken)
		}
	}

	if !errs.Has("password1") && !errs.Has("password2") {
		checkPassword(form, errs)
	}

	if !errs.Has("license_number") {
		if err := checkLicenseNumber(ctx, form.LicenseNumber, 0, drivers, errs); err != nil {
			return nil, nil, err
		}
	}

	return form, errs, nil
}

// DriverLicenseUpdate changes only the license number of an existing driver.
type DriverLicenseUpdate struct {
	LicenseNumber string `form:"license_number" validate:"required,max=255"`
}

func BindDriverLicenseUpdate(ctx context.Context, values url.Values, drivers DriverFinder, driverID int64) (*DriverLicenseUpdate, Errors, error) {
	form := &DriverLicenseUpdate{
		LicenseNumber: strings.TrimSpace(values.Get("license_number")),
	}

	errs := Errors{}
	checkStruct(form, errs)

	if !errs.Has("license_number") {
		if err := checkLicenseNumber(ctx, form.LicenseNumber, driverID, drivers, errs); err != nil {
			return nil, nil, err
		}
	}

	return form, errs, nil
}

// checkLicenseNumber applies the format rule, then uniqueness. ownerID is the
// driver allowed to already hold the number (0 for none).
func checkLicenseNumber(ctx context.Context, value string, ownerID int64, drivers DriverFinder, errs Errors) error {
	if _, err := validation.ValidateLicenseNumber(value); err != nil {
		errs.Add("license_number", err.Error())
		return nil
	}

	existing, err := drivers.GetByLicenseNumber(ctx, value)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != ownerID {
		errs.Add("license_number", msgLicenseTaken)
	}
	return nil
}

func checkPassword(form *DriverCreation, errs Errors) {
	if form.Password1 != form.Password2 {
		errs.Add("password2", msgPasswordMismatch)
		return
	}

	pw := form.Password2
	if utf8.RuneCountInString(pw) < minPasswordLength {
		errs.Add("password2", msgPasswordShort)
	}
	if isNumeric(pw) {
		errs.Add("password2", msgPasswordNumeric)
	}
	if _, ok := commonPasswords[strings.ToLower(pw)]; ok {
		errs.Add("password2", msgPasswordCommon)
	}
	if form.Username != "" && strings.Contains(strings.ToLower(pw), strings.ToLower(form.Username)) {
		errs.Add("password2", msgPasswordSimilar)
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
