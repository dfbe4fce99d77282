package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin rejects callers whose token does not carry the admin role.
// It must run after RequireAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || !principal.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
		return next(c)
	}
}
