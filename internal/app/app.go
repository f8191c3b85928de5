// Package app assembles the service: configuration, the PostgreSQL store,
// the Redis session backend, optional Keycloak federation and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/lanternlabs/gatehouse/internal/http"
	"github.com/lanternlabs/gatehouse/internal/keycloak"
	"github.com/lanternlabs/gatehouse/internal/service"
	"github.com/lanternlabs/gatehouse/internal/session"
	"github.com/lanternlabs/gatehouse/internal/store"
	"github.com/lanternlabs/gatehouse/internal/store/drivers/postgres"
	"github.com/lanternlabs/gatehouse/internal/web"
	"github.com/lanternlabs/gatehouse/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	redis    *session.RedisKV
	sessions *session.Manager

	// Services
	userService  *service.UserService
	totpService  *service.TOTPService
	adminService *service.AdminService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gatehouse",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx := context.Background()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := app.initSessions(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()

	if err := app.initHTTP(ctx); err != nil {
		_ = app.redis.Close()
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("gatehouse starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"keycloak", app.cfg.KeycloakEnabled(),
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down gatehouse...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.redis.Close(); err != nil {
		app.logger.Error("error closing redis connection", "error", err)
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("gatehouse stopped")
	return nil
}

// initDatabase connects to PostgreSQL and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	db, err := postgres.NewStore(ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initSessions connects to Redis and builds the session manager
func (app *Application) initSessions(ctx context.Context) error {
	kv, err := session.NewRedisKV(ctx, app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = kv

	app.sessions = &session.Manager{
		Secret:    []byte(app.cfg.SecretKey),
		Algorithm: app.cfg.Algorithm,
		TTL:       app.cfg.AccessTokenExpire,
		KV:        kv,
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	var mirror service.Mirror
	if app.cfg.KeycloakEnabled() {
		mirror = keycloak.NewClient(
			app.cfg.KeycloakURL,
			app.cfg.KeycloakRealm,
			app.cfg.KeycloakClientID,
			app.cfg.KeycloakClientSecret,
		)
		app.logger.Info("keycloak account mirroring enabled", "realm", app.cfg.KeycloakRealm)
	}

	app.userService = &service.UserService{Store: app.db, Mirror: mirror}
	app.totpService = &service.TOTPService{Store: app.db, Issuer: app.cfg.TOTPIssuer}
	app.adminService = &service.AdminService{Store: app.db, Mirror: mirror}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP(ctx context.Context) error {
	templates, err := web.NewTemplates()
	if err != nil {
		return err
	}

	var oidc *keycloak.OIDC
	if app.cfg.KeycloakEnabled() {
		oidc, err = keycloak.NewOIDC(ctx,
			app.cfg.KeycloakIssuer(),
			app.cfg.KeycloakClientID,
			app.cfg.KeycloakClientSecret,
			app.cfg.KeycloakRedirectURL,
		)
		if err != nil {
			return fmt.Errorf("failed to set up keycloak oidc: %w", err)
		}
		app.logger.Info("keycloak login enabled", "issuer", app.cfg.KeycloakIssuer())
	}

	router := httpapi.NewRouter(
		httpapi.RouterConfig{
			BuildVersion: BuildVersion,
			SecureCookie: app.cfg.SecureCookies,
			CSRFKey:      []byte(app.cfg.CSRFKey),
		},
		app.db,
		app.sessions,
		templates,
		oidc,
		app.logger,
	)

	// Wire services to router
	router.UserService = app.userService
	router.TOTPService = app.totpService
	router.AdminService = app.adminService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
