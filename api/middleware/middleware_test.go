package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authapi/internal/entity"
	"authapi/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func (l *RateLimiter) size() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.limiters)
}

func newManager(t *testing.T) *utils.JWTManager {
	t.Helper()
	manager, err := utils.NewJWTManager(utils.TokenConfig{Secret: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)
	return manager
}

func serve(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	manager := newManager(t)
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, map[string]any{"id": principal.UserID, "name": principal.Username, "role": principal.Role})
	}, AuthMiddleware{JWT: manager}.RequireAuth)

	token, _, err := manager.IssueAccessToken(utils.TokenSubject{UserID: 12, Username: "root", Role: entity.UserRoleAdmin})
	require.NoError(t, err)

	rec := serve(e, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":12,"name":"root","role":"admin"}`, rec.Body.String())

	rec = serve(e, "bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc", "Bearer not-a-jwt"} {
		rec := serve(e, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, `Bearer realm="authapi"`, rec.Header().Get(echo.HeaderWWWAuthenticate))
		assert.JSONEq(t, `{"message":"unauthorized"}`, rec.Body.String())
	}
}

func TestRequireAuth_WithoutManager(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, AuthMiddleware{}.RequireAuth)
	assert.Equal(t, http.StatusUnauthorized, serve(e, "Bearer x").Code)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	as := func(role string) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				if role != "" {
					SetPrincipal(c, Principal{UserID: 1, Role: role})
				}
				return next(c)
			}
		}
	}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/admin", ok, as(entity.UserRoleAdmin), RequireAdmin)
	e.GET("/user", ok, as(entity.UserRoleUser), RequireAdmin)
	e.GET("/uppercase", ok, as("ADMIN"), RequireAdmin)
	e.GET("/anonymous", ok, as(""), RequireAdmin)

	for path, want := range map[string]int{
		"/admin":     http.StatusNoContent,
		"/user":      http.StatusForbidden,
		"/uppercase": http.StatusForbidden,
		"/anonymous": http.StatusForbidden,
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestRateLimiter_AllowsBurstThenRejects(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(1), 2, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"), "buckets are per client")

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestRateLimiter_DropsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(1), 1, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")
	assert.Equal(t, 2, limiter.size())

	now = now.Add(2 * time.Minute)
	limiter.Allow("10.0.0.3")
	assert.Equal(t, 1, limiter.size())
}

func TestRateLimiter_Middleware(t *testing.T) {
	e := echo.New()
	limiter := NewRateLimiter(rate.Limit(0.001), 1, time.Minute)
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, limiter.Middleware())

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
