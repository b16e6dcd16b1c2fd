package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgUsername      = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
)

var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their HTML form name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})

	return v
}

// checkStruct runs the struct tag rules of s and records one message per
// failing field.
func checkStruct(s interface{}, errs Errors) {
	err := validate.Struct(s)
	if err == nil {
		return
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		errs.Add(NonFieldErrors, err.Error())
		return
	}
	for _, fe := range vErrs {
		errs.Add(fe.Field(), messageFor(fe))
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters (it has %d).",
			fe.Param(), utf8.RuneCountInString(fmt.Sprint(fe.Value())))
	case "username":
		return msgUsername
	default:
		return fmt.Sprintf("Enter a valid value (%s).", fe.Tag())
	}
}
