package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taxipark/config"
	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/pkg/notify"
	"taxipark/service"
	"taxipark/storage/memory"
)

const testPassword = "user12test"

type testServer struct {
	router *gin.Engine
	svc    service.IServiceManager
	driver *models.Driver
	cookie *http.Cookie
}

func testConfig() config.Config {
	return config.Config{
		PageSize:      2,
		BcryptCost:    bcrypt.MinCost,
		SessionCookie: "sessionid",
		SessionTTL:    time.Hour,
		LoginBurst:    100,
	}
}

func newTestServer(t *testing.T, cfg config.Config) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.New(cfg, memory.New(), notify.Nop{}, logger.NewNop())
	router, err := NewRouter(cfg, svc, logger.NewNop())
	require.NoError(t, err)

	ts := &testServer{router: router, svc: svc}
	ts.driver = ts.registerDriver(t, "admin.user", "ADM12345")

	rec := ts.post(t, "/accounts/login/", url.Values{"username": {"admin.user"}, "password": {testPassword}})
	require.Equal(t, http.StatusFound, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == cfg.SessionCookie {
			ts.cookie = c
		}
	}
	require.NotNil(t, ts.cookie, "login must set the session cookie")
	return ts
}

func (ts *testServer) registerDriver(t *testing.T, username, license string) *models.Driver {
	t.Helper()
	d, errs, err := ts.svc.Driver().Register(context.Background(), url.Values{
		"username":       {username},
		"password1":      {testPassword},
		"password2":      {testPassword},
		"first_name":     {"Test"},
		"last_name":      {"Driver"},
		"license_number": {license},
	})
	require.NoError(t, err)
	require.Nil(t, errs)
	return d
}

func (ts *testServer) createManufacturer(t *testing.T, name string) *models.Manufacturer {
	t.Helper()
	m, errs, err := ts.svc.Manufacturer().Create(context.Background(), url.Values{"name": {name}, "country": {"Japan"}})
	require.NoError(t, err)
	require.Nil(t, errs)
	return m
}

func (ts *testServer) createCar(t *testing.T, model string, manufacturerID int64, driverIDs ...int64) *models.Car {
	t.Helper()
	v := url.Values{"model": {model}, "manufacturer": {strconv.FormatInt(manufacturerID, 10)}}
	for _, id := range driverIDs {
		v.Add("drivers", strconv.FormatInt(id, 10))
	}
	c, errs, err := ts.svc.Car().Create(context.Background(), v)
	require.NoError(t, err)
	require.Nil(t, errs)
	return c
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if ts.cookie != nil {
		req.AddCookie(ts.cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (ts *testServer) post(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ts.cookie = nil

	for _, path := range []string{"/", "/manufacturers/", "/cars/", "/drivers/", "/cars/1/", "/drivers/1/"} {
		rec := ts.get(t, path)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/accounts/login/?next="+url.QueryEscape(path), rec.Header().Get("Location"), path)
	}
}

func TestRequireLogin_RejectsForgedCookie(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ts.cookie = &http.Cookie{Name: "sessionid", Value: "not-a-token"}

	rec := ts.get(t, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestLogin_FollowsNext(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ts.cookie = nil

	rec := ts.post(t, "/accounts/login/", url.Values{
		"username": {"admin.user"},
		"password": {testPassword},
		"next":     {"/cars/"},
	})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/cars/", rec.Header().Get("Location"))
}

func TestLogin_BadCredentials(t *testing.T) {
	ts := newTestServer(t, testConfig())
	ts.cookie = nil

	rec := ts.post(t, "/accounts/login/", url.Values{"username": {"admin.user"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a correct username and password.")
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogin_Throttled(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRatePerMinute = 1
	cfg.LoginBurst = 1
	ts := newTestServer(t, cfg)
	ts.cookie = nil

	rec := ts.post(t, "/accounts/login/", url.Values{"username": {"admin.user"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many login attempts")
}

func TestLogin_ThrottleIgnoresForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRatePerMinute = 1
	cfg.LoginBurst = 1
	ts := newTestServer(t, cfg)
	ts.cookie = nil

	throttled := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/accounts/login/",
			strings.NewReader(url.Values{"username": {"admin.user"}, "password": {"wrong"}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		if rec := ts.do(req); rec.Code == http.StatusTooManyRequests {
			throttled++
		}
	}
	assert.Equal(t, 20, throttled)
}

func TestLogin_TrustedProxyForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRatePerMinute = 1
	cfg.LoginBurst = 1
	cfg.TrustedProxies = []string{"192.0.2.1"}
	ts := newTestServer(t, cfg)
	ts.cookie = nil

	// the setup login used the proxy's own address; a forwarded client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/accounts/login/",
		strings.NewReader(url.Values{"username": {"admin.user"}, "password": {"wrong"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := ts.do(req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout_EndsSession(t *testing.T) {
	ts := newTestServer(t, testConfig())

	rec := ts.post(t, "/accounts/logout/", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, loginURL, rec.Header().Get("Location"))

	rec = ts.get(t, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestIndex_CountsVisits(t *testing.T) {
	ts := newTestServer(t, testConfig())
	m := ts.createManufacturer(t, "Toyota")
	ts.createCar(t, "Camry", m.ID, ts.driver.ID)

	rec := ts.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Number of drivers: 1")
	assert.Contains(t, body, "Number of cars: 1")
	assert.Contains(t, body, "Number of manufacturers: 1")
	assert.Contains(t, body, "visited this page 1 time.")

	rec = ts.get(t, "/")
	assert.Contains(t, rec.Body.String(), "visited this page 2 times.")
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, testConfig())

	for _, path := range []string{"/cars/999/", "/cars/abc/", "/drivers/999/", "/manufacturers/999/update/", "/nowhere/"} {
		rec := ts.get(t, path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}
