package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxipark/pkg/forms"
	"taxipark/pkg/models"
	"taxipark/service"
)

func (h *Handler) carList(c *gin.Context) {
	res, err := h.svc.Car().List(c.Request.Context(), forms.BindSearch(c.Request.URL.Query()))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "car_list.html", gin.H{"List": res})
}

func (h *Handler) carDetail(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	car, err := h.svc.Car().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "car_detail.html", gin.H{
		"Car":      car,
		"Assigned": car.HasDriver(currentDriver(c).ID),
		"Notice":   c.Query("notice"),
	})
}

// renderCarForm loads the manufacturer and driver choices for the car form.
func (h *Handler) renderCarForm(c *gin.Context, data gin.H) {
	ctx := c.Request.Context()
	manufacturers, err := h.svc.Manufacturer().GetAll(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	drivers, err := h.svc.Driver().GetAll(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	data["Manufacturers"] = manufacturers
	data["Drivers"] = drivers
	h.render(c, http.StatusOK, "car_form.html", data)
}

func (h *Handler) carCreatePage(c *gin.Context) {
	h.renderCarForm(c, gin.H{})
}

func (h *Handler) carCreate(c *gin.Context) {
	values := postForm(c)
	_, errs, err := h.svc.Car().Create(c.Request.Context(), values)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs != nil {
		h.renderCarForm(c, gin.H{"Form": values, "Errors": errs})
		return
	}
	redirect(c, "/cars/")
}

func carValues(car *models.Car) url.Values {
	values := url.Values{
		"model":        {car.Model},
		"manufacturer": {strconv.FormatInt(car.ManufacturerID, 10)},
	}
	for _, id := range car.DriverIDs {
		values.Add("drivers", strconv.FormatInt(id, 10))
	}
	return values
}

func (h *Handler) carUpdatePage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	car, err := h.svc.Car().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderCarForm(c, gin.H{"Form": carValues(car), "Object": car})
}

func (h *Handler) carUpdate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	values := postForm(c)
	_, errs, err := h.svc.Car().Update(c.Request.Context(), id, values)
	if err != nil {
		h.fail(c, err)
		return
	}
	if errs != nil {
		h.renderCarForm(c, gin.H{"Form": values, "Errors": errs, "Object": gin.H{"ID": id}})
		return
	}
	redirect(c, "/cars/")
}

func (h *Handler) carDeletePage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	car, err := h.svc.Car().Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "confirm_delete.html", gin.H{
		"Object": car,
		"Kind":   "car",
		"Cancel": "/cars/" + strconv.FormatInt(id, 10) + "/",
	})
}

func (h *Handler) carDelete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Car().Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	redirect(c, "/cars/")
}

func (h *Handler) carToggleAssign(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	detail := "/cars/" + strconv.FormatInt(id, 10) + "/"

	_, err := h.svc.Car().ToggleAssign(c.Request.Context(), id, currentDriver(c))
	if errors.Is(err, service.ErrLastDriver) {
		redirect(c, detail+"?notice=last-driver")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	redirect(c, detail)
}
