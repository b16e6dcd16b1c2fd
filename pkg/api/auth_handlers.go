package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taxipark/pkg/forms"
	"taxipark/pkg/logger"
	"taxipark/service"
)

const msgBadLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Next": c.Query("next")})
}

func (h *Handler) login(c *gin.Context) {
	values := postForm(c)
	next := values.Get("next")

	form, errs := forms.BindLogin(values)
	if !errs.Valid() {
		h.render(c, http.StatusOK, "login.html", gin.H{"Form": values, "Errors": errs, "Next": next})
		return
	}

	session, err := h.svc.Auth().Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		errs.Add(forms.NonFieldErrors, msgBadLogin)
		h.render(c, http.StatusOK, "login.html", gin.H{"Form": values, "Errors": errs, "Next": next})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.SessionCookie, session.Token.String(), int(h.cfg.SessionTTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
	redirect(c, safeNext(next))
}

func (h *Handler) logout(c *gin.Context) {
	if s := currentSession(c); s != nil {
		if err := h.svc.Auth().Logout(c.Request.Context(), s.Token.String()); err != nil {
			h.log.Warning("logout failed", logger.Error(err))
		}
	}
	c.SetCookie(h.cfg.SessionCookie, "", -1, "/", "", h.cfg.CookieSecure, true)
	redirect(c, loginURL)
}

// safeNext only follows local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}

func (h *Handler) index(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.svc.Stats().Counts(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	visits, err := h.svc.Auth().CountVisit(ctx, currentSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, "index.html", gin.H{"Stats": stats, "Visits": visits})
}
