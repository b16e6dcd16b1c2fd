package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxipark/pkg/forms"
	"taxipark/pkg/logger"
	"taxipark/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"selected": selected,
	"pageURL":  pageURL,
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// selected reports whether id is among the submitted values of field.
func selected(values url.Values, field string, id int64) bool {
	want := strconv.FormatInt(id, 10)
	for _, v := range values[field] {
		if v == want {
			return true
		}
	}
	return false
}

func pageURL(query string, page int) string {
	v := url.Values{"page": {strconv.Itoa(page)}}
	if query != "" {
		v.Set("q", query)
	}
	return "?" + v.Encode()
}

// render fills the keys every page expects before executing name.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	if _, ok := data["Form"]; !ok {
		data["Form"] = url.Values{}
	}
	data["User"] = currentDriver(c)
	c.HTML(status, name, data)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		h.render(c, http.StatusNotFound, "error.html", gin.H{"Status": http.StatusNotFound, "Message": "Not found."})
		return
	}
	h.log.Error("request failed",
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong.",
	})
}

// pathID parses the :id route parameter; a malformed id is a 404.
func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, service.ErrNotFound)
		return 0, false
	}
	return id, true
}

func postForm(c *gin.Context) url.Values {
	if err := c.Request.ParseForm(); err != nil {
		return url.Values{}
	}
	return c.Request.PostForm
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}
