package service

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taxipark/config"
	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/storage/memory"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return nil
}

type testEnv struct {
	stg      *memory.Store
	svc      IServiceManager
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{PageSize: 2, BcryptCost: bcrypt.MinCost}
	stg := memory.New()
	n := &recordingNotifier{}
	return &testEnv{
		stg:      stg,
		svc:      New(cfg, stg, n, logger.NewNop()),
		notifier: n,
	}
}

func driverValues(username, license string) url.Values {
	return url.Values{
		"username":       {username},
		"password1":      {"user12test"},
		"password2":      {"user12test"},
		"first_name":     {"Test"},
		"last_name":      {"Driver"},
		"license_number": {license},
	}
}

func (e *testEnv) registerDriver(t *testing.T, username, license string) *models.Driver {
	t.Helper()
	d, errs, err := e.svc.Driver().Register(context.Background(), driverValues(username, license))
	require.NoError(t, err)
	require.Nil(t, errs)
	return d
}

func (e *testEnv) createManufacturer(t *testing.T, name string) *models.Manufacturer {
	t.Helper()
	m, errs, err := e.svc.Manufacturer().Create(context.Background(), url.Values{"name": {name}, "country": {"Japan"}})
	require.NoError(t, err)
	require.Nil(t, errs)
	return m
}

func carValues(model string, manufacturerID int64, driverIDs ...int64) url.Values {
	v := url.Values{"model": {model}, "manufacturer": {strconv.FormatInt(manufacturerID, 10)}}
	for _, id := range driverIDs {
		v.Add("drivers", strconv.FormatInt(id, 10))
	}
	return v
}

func (e *testEnv) createCar(t *testing.T, model string, manufacturerID int64, driverIDs ...int64) *models.Car {
	t.Helper()
	c, errs, err := e.svc.Car().Create(context.Background(), carValues(model, manufacturerID, driverIDs...))
	require.NoError(t, err)
	require.Nil(t, errs)
	return c
}
