package devgateway

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// BearerAuth validates the JWT in the Authorization header and stores the
// user it names in the echo context.
func BearerAuth(svc *Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, messageBody{Message: "missing authorization header"})
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return c.JSON(http.StatusUnauthorized, messageBody{Message: "invalid authorization header"})
			}

			user, err := svc.Verify(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, messageBody{Message: "invalid token"})
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}
