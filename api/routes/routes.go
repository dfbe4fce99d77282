package routes

import (
	"net/http"
	"time"

	"authapi/api/handler"
	"authapi/api/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type RateLimits struct {
	LoginRPS   float64
	LoginBurst int
}

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	AuthMiddleware middleware.AuthMiddleware
	LoginRate      *middleware.RateLimiter
	RecoveryRate   *middleware.RateLimiter
	Gatherer       prometheus.Gatherer
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	authMiddleware middleware.AuthMiddleware,
	limits RateLimits,
	gatherer prometheus.Gatherer,
) *Router {
	if limits.LoginRPS <= 0 {
		limits.LoginRPS = 2
	}
	if limits.LoginBurst <= 0 {
		limits.LoginBurst = 5
	}
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Users:          userHandler,
		AuthMiddleware: authMiddleware,
		LoginRate:      middleware.NewRateLimiter(rate.Limit(limits.LoginRPS), limits.LoginBurst, 10*time.Minute),
		RecoveryRate:   middleware.NewRateLimiter(rate.Limit(limits.LoginRPS/2), limits.LoginBurst, 10*time.Minute),
		Gatherer:       gatherer,
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo
	requireAuth := r.AuthMiddleware.RequireAuth
	requireAdmin := middleware.RequireAdmin

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	if r.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{})))
	}

	auth := e.Group("/api/auth")
	auth.POST("/login", r.Auth.Login, r.LoginRate.Middleware())
	auth.POST("/change-initial-password", r.Auth.ChangeInitialPassword, requireAuth)
	auth.POST("/forgot-password", r.Auth.ForgotPassword, r.RecoveryRate.Middleware())
	auth.POST("/reset-password", r.Auth.ResetPassword, r.RecoveryRate.Middleware())

	users := e.Group("/api/users", requireAuth)
	users.GET("/me", r.Users.Me)
	users.PUT("/me", r.Users.UpdateMe)
	users.GET("", r.Users.List, requireAdmin)
	users.POST("", r.Users.Create, requireAdmin)
	users.PUT("/:id", r.Users.AdminUpdate, requireAdmin)
	users.DELETE("/:id", r.Users.Delete, requireAdmin)
}
