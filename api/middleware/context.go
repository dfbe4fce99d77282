package middleware

import (
	"authapi/internal/entity"

	"github.com/labstack/echo/v4"
)

const contextPrincipalKey = "auth_principal"

// Principal is the caller resolved from a valid access token.
type Principal struct {
	UserID   int64
	Username string
	Role     string
}

func (p Principal) IsAdmin() bool {
	return entity.IsAdminRole(p.Role)
}

func SetPrincipal(c echo.Context, principal Principal) {
	c.Set(contextPrincipalKey, principal)
}

func PrincipalFromContext(c echo.Context) (Principal, bool) {
	principal, ok := c.Get(contextPrincipalKey).(Principal)
	return principal, ok
}
