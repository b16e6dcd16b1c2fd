package forms

import (
	"net/url"
	"strings"
)

type Manufacturer struct {
	Name    string `form:"name" validate:"required,max=255"`
	Country string `form:"country" validate:"required,max=255"`
}

func BindManufacturer(values url.Values) (*Manufacturer, Errors) {
	form := &Manufacturer{
		Name:    strings.TrimSpace(values.Get("name")),
		Country: strings.TrimSpace(values.Get("country")),
	}

	errs := Errors{}
	checkStruct(form, errs)
	return form, errs
}
