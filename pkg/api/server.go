package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxipark/config"
	"taxipark/pkg/logger"
	"taxipark/service"
)

type Handler struct {
	cfg     config.Config
	svc     service.IServiceManager
	log     logger.ILogger
	limiter *loginLimiter
}

func NewRouter(cfg config.Config, svc service.IServiceManager, log logger.ILogger) (*gin.Engine, error) {
	h := &Handler{
		cfg:     cfg,
		svc:     svc,
		log:     log,
		limiter: newLoginLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst),
	}

	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	// Without trusted proxies ClientIP is the socket peer, not X-Forwarded-For.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.SetHTMLTemplate(tmpl)

	r.GET("/accounts/login/", h.loginPage)
	r.POST("/accounts/login/", h.throttleLogin, h.login)

	auth := r.Group("/", h.requireLogin)
	{
		auth.GET("/", h.index)
		auth.POST("/accounts/logout/", h.logout)

		manufacturers := auth.Group("/manufacturers")
		manufacturers.GET("/", h.manufacturerList)
		manufacturers.GET("/create/", h.manufacturerCreatePage)
		manufacturers.POST("/create/", h.manufacturerCreate)
		manufacturers.GET("/:id/update/", h.manufacturerUpdatePage)
		manufacturers.POST("/:id/update/", h.manufacturerUpdate)
		manufacturers.GET("/:id/delete/", h.manufacturerDeletePage)
		manufacturers.POST("/:id/delete/", h.manufacturerDelete)

		cars := auth.Group("/cars")
		cars.GET("/", h.carList)
		cars.GET("/create/", h.carCreatePage)
		cars.POST("/create/", h.carCreate)
		cars.GET("/:id/", h.carDetail)
		cars.GET("/:id/update/", h.carUpdatePage)
		cars.POST("/:id/update/", h.carUpdate)
		cars.GET("/:id/delete/", h.carDeletePage)
		cars.POST("/:id/delete/", h.carDelete)
		cars.POST("/:id/toggle-assign/", h.carToggleAssign)

		drivers := auth.Group("/drivers")
		drivers.GET("/", h.driverList)
		drivers.GET("/create/", h.driverCreatePage)
		drivers.POST("/create/", h.driverCreate)
		drivers.GET("/:id/", h.driverDetail)
		drivers.GET("/:id/update/", h.driverUpdatePage)
		drivers.POST("/:id/update/", h.driverUpdate)
		drivers.GET("/:id/delete/", h.driverDeletePage)
		drivers.POST("/:id/delete/", h.driverDelete)
	}

	r.NoRoute(func(c *gin.Context) {
		h.render(c, http.StatusNotFound, "error.html", gin.H{"Status": http.StatusNotFound, "Message": "Page not found."})
	})

	return r, nil
}

// RunServer serves until ctx is cancelled, then drains in-flight requests.
func RunServer(ctx context.Context, cfg config.Config, svc service.IServiceManager, log logger.ILogger) error {
	if cfg.LoggerLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := NewRouter(cfg, svc, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server is starting...", logger.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("Stopping HTTP server...")
	return srv.Shutdown(shutdownCtx)
}
