package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradepulse/dashboard/internal/api/metrics"
)

const (
	AuthPath      = "/auth"
	DashboardPath = "/dashboard"
)

// RequireSession guards protected pages: a logged-out request is sent to
// /auth and nothing of the page is rendered.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !loggedIn(c) {
				metrics.GuardRedirectsTotal.WithLabelValues("protected", AuthPath).Inc()
				return c.Redirect(http.StatusFound, AuthPath)
			}
			return next(c)
		}
	}
}

// RequireSessionAPI is RequireSession for JSON endpoints: 401 instead of a redirect.
func RequireSessionAPI() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !loggedIn(c) {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			return next(c)
		}
	}
}

// RedirectIfAuthenticated guards the public auth page: a logged-in request
// goes straight to the dashboard.
func RedirectIfAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if loggedIn(c) {
				metrics.GuardRedirectsTotal.WithLabelValues("public", DashboardPath).Inc()
				return c.Redirect(http.StatusFound, DashboardPath)
			}
			return next(c)
		}
	}
}

// Root sends / to the dashboard or to /auth depending on the session.
func Root(c echo.Context) error {
	target := AuthPath
	if loggedIn(c) {
		target = DashboardPath
	}
	metrics.GuardRedirectsTotal.WithLabelValues("root", target).Inc()
	return c.Redirect(http.StatusFound, target)
}
