package forms

import (
	"net/url"
	"strings"

	"github.com/spf13/cast"
)

// Search is the query string of a list view: ?q=<term>&page=<n>.
type Search struct {
	Query string
	Page  int
}

// BindSearch never fails; a malformed page number falls back to the first page.
func BindSearch(values url.Values) Search {
	page := cast.ToInt(values.Get("page"))
	if page < 1 {
		page = 1
	}
	return Search{
		Query: strings.TrimSpace(values.Get("q")),
		Page:  page,
	}
}

type Login struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func BindLogin(values url.Values) (*Login, Errors) {
	form := &Login{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
	}
	errs := Errors{}
	checkStruct(form, errs)
	return form, errs
}
