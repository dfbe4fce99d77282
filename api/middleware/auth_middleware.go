package middleware

import (
	"net/http"
	"strings"

	"authapi/internal/utils"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware resolves the caller from a bearer access token.
type AuthMiddleware struct {
	JWT *utils.JWTManager
}

func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, ok := m.authenticate(c.Request())
		if !ok {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="authapi"`)
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		SetPrincipal(c, principal)
		return next(c)
	}
}

func (m AuthMiddleware) authenticate(r *http.Request) (Principal, bool) {
	if m.JWT == nil {
		return Principal{}, false
	}
	token, ok := bearerToken(r.Header.Get(echo.HeaderAuthorization))
	if !ok {
		return Principal{}, false
	}
	claims, err := m.JWT.ParseAccessToken(token)
	if err != nil {
		return Principal{}, false
	}
	userID, err := claims.UserID()
	if err != nil {
		return Principal{}, false
	}
	return Principal{UserID: userID, Username: claims.Username, Role: claims.Role}, true
}

// bearerToken accepts "Bearer <token>" with a case-insensitive scheme.
func bearerToken(authorization string) (string, bool) {
	scheme, token, ok := strings.Cut(authorization, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
