package api

import (
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"taxipark/pkg/logger"
	"taxipark/pkg/models"
	"taxipark/service"
)

const (
	ctxDriver  = "driver"
	ctxSession = "session"

	loginURL = "/accounts/login/"
)

func requestLogger(log logger.ILogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
		)
	}
}

// requireLogin redirects anonymous visitors to the login page and stores the
// authenticated driver and session on the context.
func (h *Handler) requireLogin(c *gin.Context) {
	token, _ := c.Cookie(h.cfg.SessionCookie)

	driver, session, err := h.svc.Auth().Authenticate(c.Request.Context(), token)
	if errors.Is(err, service.ErrUnauthenticated) {
		c.Redirect(http.StatusFound, loginURL+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	if err != nil {
		h.fail(c, err)
		c.Abort()
		return
	}

	c.Set(ctxDriver, driver)
	c.Set(ctxSession, session)
	c.Next()
}

func currentDriver(c *gin.Context) *models.Driver {
	if v, ok := c.Get(ctxDriver); ok {
		if d, ok := v.(*models.Driver); ok {
			return d
		}
	}
	return nil
}

func currentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(ctxSession); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return nil
}

// loginLimiter keeps one token bucket per client IP. A bucket idle long
// enough to have refilled is dropped, since a new one behaves the same.
type loginLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

func newLoginLimiter(perMinute, burst int) *loginLimiter {
	limit := rate.Inf
	var idle time.Duration
	if burst <= 0 {
		burst = 1
	}
	if perMinute > 0 {
		every := time.Minute / time.Duration(perMinute)
		limit = rate.Every(every)
		idle = every * time.Duration(burst)
	}
	return &loginLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
		idle:    idle,
		now:     time.Now,
	}
}

func (l *loginLimiter) Allow(key string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// sweep expects l.mu to be held.
func (l *loginLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.seen) >= l.idle {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *loginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (h *Handler) throttleLogin(c *gin.Context) {
	if h.limiter.Allow(c.ClientIP()) {
		c.Next()
		return
	}
	h.log.Warning("login throttled", logger.String("ip", c.ClientIP()))
	h.render(c, http.StatusTooManyRequests, "login.html", gin.H{
		"Message": "Too many login attempts. Try again later.",
	})
	c.Abort()
}
