package api

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"taxipark/pkg/forms"
)

func (h *Handler) manufacturerList(c *gin.Context) {
	res, err := h.svc.Manufacturer().List(c.Request.Context(), forms.BindSearch(c.Request.URL.Query()))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "manufacturer_list.html", gin.H{"List": res})
}

func (h *Handler) manufacturerCreatePage(c *gin.Context) {
	h.render(c, http.StatusOK, "manufacturer_form.html", nil)
}

func (h *Handler) manufacturerCreate(c *gin.Context) {
	values := postForm(c)
	_, errs, err := h.svc.Manufacturer().Create(c.Request.Context(), values)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs != nil {
		h.render(c, http.StatusOK, "manufacturer_form.html", gin.H{"Form": values, "Errors": errs})
		return
	}
	redirect(c, "/manufacturers/")
}

func (h *Handler) manufacturerUpdatePage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	m, err := h.svc.Manufacturer().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	values := url.Values{"name": {m.Name}, "country": {m.Country}}
	h.render(c, http.StatusOK, "manufacturer_form.html", gin.H{"Form": values, "Object": m})
}

func (h *Handler) manufacturerUpdate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	values := postForm(c)
	_, errs, err := h.svc.Manufacturer().Update(c.Request.Context(), id, values)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs != nil {
		h.render(c, http.StatusOK, "manufacturer_form.html", gin.H{"Form": values, "Errors": errs, "Object": gin.H{"ID": id}})
		return
	}
	redirect(c, "/manufacturers/")
}

func (h *Handler) manufacturerDeletePage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	m, err := h.svc.Manufacturer().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "confirm_delete.html", gin.H{
		"Object": m,
		"Kind":   "manufacturer",
		"Cancel": "/manufacturers/",
	})
}

func (h *Handler) manufacturerDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Manufacturer().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	redirect(c, "/manufacturers/")
}
