package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tradepulse/dashboard/internal/api/middleware"
	"github.com/tradepulse/dashboard/internal/core/domain"
	"github.com/tradepulse/dashboard/internal/core/session"
)

// ctxSession returns the container the Session middleware installed. Its
// absence means the route was mounted outside the middleware.
func ctxSession(c echo.Context) (*session.Container, error) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}
	return sess, nil
}

// ctxUser returns the logged-in user, or nil.
func ctxUser(c echo.Context) *domain.User {
	if sess := middleware.SessionFrom(c); sess != nil {
		return sess.User()
	}
	return nil
}
