package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxipark/pkg/forms"
)

func (h *Handler) driverList(c *gin.Context) {
	res, err := h.svc.Driver().List(c.Request.Context(), forms.BindSearch(c.Request.URL.Query()))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "driver_list.html", gin.H{"List": res})
}

func (h *Handler) driverDetail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	detail, err := h.svc.Driver().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "driver_detail.html", gin.H{"Detail": detail})
}

func (h *Handler) driverCreatePage(c *gin.Context) {
	h.render(c, http.StatusOK, "driver_form.html", nil)
}

func (h *Handler) driverCreate(c *gin.Context) {
	values := postForm(c)
	d, errs, err := h.svc.Driver().Register(c.Request.Context(), values)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs != nil {
		// never echo passwords back into the page
		values.Del("password1")
		values.Del("password2")
		h.render(c, http.StatusOK, "driver_form.html", gin.H{"Form": values, "Errors": errs})
		return
	}
	redirect(c, "/drivers/"+strconv.FormatInt(d.ID, 10)+"/")
}

func (h *Handler) driverUpdatePage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	detail, err := h.svc.Driver().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	values := url.Values{"license_number": {detail.Driver.LicenseNumber}}
	h.render(c, http.StatusOK, "driver_license_form.html", gin.H{"Form": values, "Object": detail.Driver})
}

func (h *Handler) driverUpdate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	values := postForm(c)
	d, errs, err := h.svc.Driver().UpdateLicense(c.Request.Context(), id, values)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs != nil {
		h.render(c, http.StatusOK, "driver_license_form.html", gin.H{"Form": values, "Errors": errs, "Object": gin.H{"ID": id}})
		return
	}
	redirect(c, "/drivers/"+strconv.FormatInt(d.ID, 10)+"/")
}

func (h *Handler) driverDeletePage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	detail, err := h.svc.Driver().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "confirm_delete.html", gin.H{
		"Object": detail.Driver,
		"Kind":   "driver",
		"Cancel": "/drivers/" + strconv.FormatInt(id, 10) + "/",
	})
}

func (h *Handler) driverDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Driver().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	redirect(c, "/drivers/")
}
