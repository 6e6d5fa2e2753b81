package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC lets through only sessions whose user holds one of allowedRoles.
// It must run after RequireSession or RequireSessionAPI.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var role string
			if sess := SessionFrom(c); sess != nil {
				if u := sess.User(); u != nil {
					role = u.Role
				}
			}
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
