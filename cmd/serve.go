package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"authapi/api/handler"
	apiMiddleware "authapi/api/middleware"
	"authapi/api/routes"
	"authapi/config"
	"authapi/internal/metrics"
	"authapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	admin adminSeed
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API. With --admin-username, --admin-email and
--admin-password the first administrator is created when missing,
which is the only way to get one with the in-memory store.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.admin.Username, "admin-username", "", "seed administrator username")
	cmd.Flags().StringVar(&opts.admin.Email, "admin-email", "", "seed administrator email")
	cmd.Flags().StringVar(&opts.admin.Nome, "admin-nome", "Administrator", "seed administrator display name")
	cmd.Flags().StringVar(&opts.admin.Password, "admin-password", "", "seed administrator temporary password")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.LogLevel, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("configuration rejected")
		return err
	}

	st, err := openStores(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("open stores")
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			logger.WithError(err).Warn("close stores")
		}
	}()

	jwtManager, err := newJWTManager(cfg)
	if err != nil {
		return err
	}
	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}
	hasher := newHasher(cfg)

	if opts.admin.Username != "" || opts.admin.Email != "" || opts.admin.Password != "" {
		if err := seedAdminIfMissing(ctx, st.users, hasher, opts.admin, logger); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)

	credentialService := service.NewCredentialService(
		st.users,
		st.securityLogs,
		hasher,
		service.JWTTokenIssuer{Manager: jwtManager},
		notifier,
		service.RealClock{},
		logger,
		service.CredentialConfig{ResetTokenTTL: cfg.ResetTokenTTL},
	)
	userService := service.NewUserService(st.users, st.securityLogs, hasher, notifier, logger)

	validate := validator.New()
	app := newEcho(logger)
	router := routes.NewRouter(
		app,
		handler.NewAuthHandler(credentialService, validate, logger),
		handler.NewUserHandler(userService, validate, logger),
		apiMiddleware.AuthMiddleware{JWT: jwtManager},
		routes.RateLimits{LoginRPS: cfg.LoginRPS, LoginBurst: cfg.LoginBurst},
		registry,
	)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("server started")
		errCh <- app.StartServer(server)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server stopped")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
		return err
	}
	return nil
}

func newEcho(logger logrus.FieldLogger) *echo.Echo {
	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status":  v.Status,
				"method":  v.Method,
				"uri":     v.URI,
				"ip":      v.RemoteIP,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	return app
}
