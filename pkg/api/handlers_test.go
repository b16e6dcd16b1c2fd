package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManufacturer_CreateUpdateDelete(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ctx := context.Background()

	rec := ts.post(t, "/manufacturers/create/", url.Values{"name": {"Lincoln"}, "country": {"USA"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/manufacturers/", rec.Header().Get("Location"))

	all, err := ts.svc.Manufacturer().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	id := strconv.FormatInt(all[0].ID, 10)

	rec = ts.get(t, "/manufacturers/")
	assert.Contains(t, rec.Body.String(), "Lincoln")

	rec = ts.get(t, "/manufacturers/"+id+"/update/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="USA"`)

	rec = ts.post(t, "/manufacturers/"+id+"/update/", url.Values{"name": {"Lincoln"}, "country": {"United States"}})
	require.Equal(t, http.StatusFound, rec.Code)
	m, err := ts.svc.Manufacturer().Get(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "United States", m.Country)

	rec = ts.get(t, "/manufacturers/"+id+"/delete/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lincoln United States")

	rec = ts.post(t, "/manufacturers/"+id+"/delete/", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	_, err = ts.svc.Manufacturer().Get(ctx, all[0].ID)
	assert.Error(t, err)
}

func TestManufacturer_CreateInvalid(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.post(t, "/manufacturers/create/", url.Values{"name": {""}, "country": {"USA"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required.")
	assert.Contains(t, rec.Body.String(), `value="USA"`)
}

func TestManufacturerList_SearchAndPaginate(t *testing.T) {
	ts := newTestServer(t, testConfig())
	for _, name := range []string{"Audi", "BMW", "Bentley", "Toyota"} {
		ts.createManufacturer(t, name)
	}

	rec := ts.get(t, "/manufacturers/?q=b")
	body := rec.Body.String()
	assert.Contains(t, body, "BMW")
	assert.Contains(t, body, "Bentley")
	assert.NotContains(t, body, "Audi")

	rec = ts.get(t, "/manufacturers/?page=2")
	body = rec.Body.String()
	assert.Contains(t, body, "Page 2 of 2")
	assert.Contains(t, body, `href="?page=1"`)
}

func TestDriverCreate_RedirectsToDetail(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.post(t, "/drivers/create/", url.Values{
		"username":       {"new.driver"},
		"password1":      {testPassword},
		"password2":      {testPassword},
		"first_name":     {"New"},
		"last_name":      {"Driver"},
		"license_number": {"NEW12345"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	d, err := ts.svc.Driver().GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, d, 2)
	var created int64
	for _, x := range d {
		if x.Username == "new.driver" {
			created = x.ID
		}
	}
	assert.Equal(t, "/drivers/"+strconv.FormatInt(created, 10)+"/", rec.Header().Get("Location"))
}

func TestDriverCreate_InvalidLicense(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.post(t, "/drivers/create/", url.Values{
		"username":       {"new.driver"},
		"password1":      {testPassword},
		"password2":      {testPassword},
		"first_name":     {"New"},
		"last_name":      {"Driver"},
		"license_number": {"new12345"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "First 3 characters should be uppercase letters")
	assert.NotContains(t, body, testPassword)
}

func TestDriverUpdate_License(t *testing.T) {
	ts := newTestServer(t, testConfig())
	id := strconv.FormatInt(ts.driver.ID, 10)

	rec := ts.post(t, "/drivers/"+id+"/update/", url.Values{"license_number": {"ABC1234"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "License number should consist of 8 characters")

	rec = ts.post(t, "/drivers/"+id+"/update/", url.Values{"license_number": {"XYZ98765"}})
	require.Equal(t, http.StatusFound, rec.Code)

	detail, err := ts.svc.Driver().Get(context.Background(), ts.driver.ID)
	require.NoError(t, err)
	assert.Equal(t, "XYZ98765", detail.Driver.LicenseNumber)
}

func TestDriverDetail_ListsCars(t *testing.T) {
	ts := newTestServer(t, testConfig())
	m := ts.createManufacturer(t, "Toyota")
	ts.createCar(t, "Camry", m.ID, ts.driver.ID)

	rec := ts.get(t, "/drivers/"+strconv.FormatInt(ts.driver.ID, 10)+"/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ADM12345")
	assert.Contains(t, body, "Camry")
}

func TestCarCreate(t *testing.T) {
	ts := newTestServer(t, testConfig())
	m := ts.createManufacturer(t, "Toyota")
	mid := strconv.FormatInt(m.ID, 10)
	did := strconv.FormatInt(ts.driver.ID, 10)

	tests := []struct {
		name    string
		values  url.Values
		status  int
		message string
	}{
		{
			name:   "valid",
			values: url.Values{"model": {"Camry"}, "manufacturer": {mid}, "drivers": {did}},
			status: http.StatusFound,
		},
		{
			name:    "no drivers",
			values:  url.Values{"model": {"Camry"}, "manufacturer": {mid}},
			status:  http.StatusOK,
			message: "This field is required.",
		},
		{
			name:    "unknown manufacturer",
			values:  url.Values{"model": {"Camry"}, "manufacturer": {"999"}, "drivers": {did}},
			status:  http.StatusOK,
			message: "Select a valid choice.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.post(t, "/cars/create/", tt.values)
			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.Contains(t, rec.Body.String(), tt.message)
			} else {
				assert.Equal(t, "/cars/", rec.Header().Get("Location"))
			}
		})
	}
}

func TestCarForm_KeepsSelection(t *testing.T) {
	ts := newTestServer(t, testConfig())
	m := ts.createManufacturer(t, "Toyota")
	car := ts.createCar(t, "Camry", m.ID, ts.driver.ID)

	rec := ts.get(t, "/cars/"+strconv.FormatInt(car.ID, 10)+"/update/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="`+strconv.FormatInt(m.ID, 10)+`" selected`)
	assert.Contains(t, body, `value="`+strconv.FormatInt(ts.driver.ID, 10)+`" checked`)
}

func TestCarToggleAssign(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ctx := context.Background()
	other := ts.registerDriver(t, "other.driver", "OTH12345")
	m := ts.createManufacturer(t, "Toyota")
	car := ts.createCar(t, "Camry", m.ID, other.ID)
	path := "/cars/" + strconv.FormatInt(car.ID, 10) + "/"

	rec := ts.post(t, path+"toggle-assign/", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, path, rec.Header().Get("Location"))

	got, err := ts.svc.Car().Get(ctx, car.ID)
	require.NoError(t, err)
	assert.True(t, got.HasDriver(ts.driver.ID))

	rec = ts.get(t, path)
	assert.Contains(t, rec.Body.String(), "Delete me from this car")

	rec = ts.post(t, path+"toggle-assign/", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	got, err = ts.svc.Car().Get(ctx, car.ID)
	require.NoError(t, err)
	assert.False(t, got.HasDriver(ts.driver.ID))
}

func TestCarToggleAssign_LastDriver(t *testing.T) {
	ts := newTestServer(t, testConfig())
	m := ts.createManufacturer(t, "Toyota")
	car := ts.createCar(t, "Camry", m.ID, ts.driver.ID)
	path := "/cars/" + strconv.FormatInt(car.ID, 10) + "/"

	rec := ts.post(t, path+"toggle-assign/", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, path+"?notice=last-driver", rec.Header().Get("Location"))

	rec = ts.get(t, path+"?notice=last-driver")
	assert.Contains(t, rec.Body.String(), "A car must keep at least one driver.")
}

func TestCarDelete(t *testing.T) {
	ts := newTestServer(t, testConfig())
	m := ts.createManufacturer(t, "Toyota")
	car := ts.createCar(t, "Camry", m.ID, ts.driver.ID)
	path := "/cars/" + strconv.FormatInt(car.ID, 10) + "/delete/"

	rec := ts.get(t, path)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Camry")

	rec = ts.post(t, path, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cars/", rec.Header().Get("Location"))

	rec = ts.post(t, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePages_RenderEmptyForms(t *testing.T) {
	ts := newTestServer(t, testConfig())

	for path, title := range map[string]string{
		"/drivers/create/":       "Create driver",
		"/cars/create/":          "Create car",
		"/manufacturers/create/": "Create manufacturer",
	} {
		rec := ts.get(t, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), title, path)
	}
}
