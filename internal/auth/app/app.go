package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hsshealth/hss/internal/auth/cache"
	httpapi "github.com/hsshealth/hss/internal/auth/http"
	"github.com/hsshealth/hss/internal/auth/service"
	"github.com/hsshealth/hss/internal/auth/store"
	"github.com/hsshealth/hss/internal/auth/store/drivers/sqlite"
	"github.com/hsshealth/hss/internal/auth/tenant"
	"github.com/hsshealth/hss/internal/auth/upstream"
	"github.com/hsshealth/hss/pkg/cryptox"
	"github.com/hsshealth/hss/pkg/httpx"
	"github.com/hsshealth/hss/pkg/jwtx"
	"github.com/hsshealth/hss/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service application with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	tenants  *tenant.Registry
	redis    *redis.Client
	stats    *cache.StatsCache
	signer   jwtx.Signer
	verifier jwtx.Verifier
	metrics  *prometheus.Registry

	// Outbound collaborators
	captcha  upstream.CaptchaVerifier
	mailer   upstream.Mailer
	geocoder upstream.Geocoder

	// Services
	tokenService        *service.TokenService
	accountService      *service.AccountService
	sessionService      *service.SessionService
	dashboardService    *service.DashboardService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: prometheus.NewRegistry(),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initTokens(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initTenants()
	if err := app.initCache(); err != nil {
		app.closeStores()
		return nil, err
	}
	app.initUpstream()
	app.initServices()

	if err := app.bootstrap(); err != nil {
		app.closeStores()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

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

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

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

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	if err := app.tenants.Close(); err != nil {
		app.logger.Error("error closing tenant connections", "error", err)
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// closeStores releases what New opened when a later step fails.
func (app *Application) closeStores() {
	if app.tenants != nil {
		_ = app.tenants.Close()
	}
	if app.redis != nil {
		_ = app.redis.Close()
	}
	_ = app.db.Close()
}

// databaseDSN turns a bare path into a modernc sqlite DSN with WAL and a
// busy timeout. Full DSNs are passed through.
func databaseDSN(raw string) string {
	if raw == ":memory:" || strings.HasPrefix(raw, "file:") {
		return raw
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", raw)
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(databaseDSN(app.cfg.DatabaseDSN))
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

// initTokens builds the HS256 signer and verifier from the shared secret.
func (app *Application) initTokens() error {
	secret := []byte(app.cfg.SigningSecret)

	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	verifier, err := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{
		Issuer: app.cfg.Issuer,
		Leeway: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	app.signer = signer
	app.verifier = verifier
	return nil
}

func (app *Application) initTenants() {
	var opener tenant.Opener
	switch app.cfg.TenantDriver {
	case TenantDriverPostgres:
		opener = &tenant.PostgresOpener{DSN: app.cfg.TenantDSN, Logger: app.logger}
	default:
		opener = &tenant.SQLiteOpener{Dir: app.cfg.TenantDSN, Logger: app.logger}
	}

	app.tenants = tenant.NewRegistry(opener, app.logger)
	app.logger.Info("tenant storage configured", "driver", app.cfg.TenantDriver)
}

// initCache connects the dashboard stats cache when REDIS_URL is set. An
// unreachable redis at startup is only a warning; requests bypass it.
func (app *Application) initCache() error {
	if app.cfg.RedisURL == "" {
		app.logger.Info("stats cache disabled")
		return nil
	}

	rdb, err := cache.Connect(app.cfg.RedisURL)
	if err != nil {
		return err
	}
	app.redis = rdb
	app.stats = cache.NewStatsCache(rdb, app.cfg.StatsCacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := app.stats.Ping(ctx); err != nil {
		app.logger.Warn("stats cache unreachable", "error", err)
	}
	return nil
}

func (app *Application) initUpstream() {
	timeout := upstream.ClampTimeout(app.cfg.OutboundTimeout)

	if app.cfg.RecaptchaSecret == "" {
		app.logger.Warn("RECAPTCHA_SECRET not set, captcha verification disabled")
		app.captcha = upstream.NoopVerifier{}
	} else {
		app.captcha = upstream.NewRecaptchaVerifier(app.cfg.RecaptchaSecret, app.cfg.RecaptchaVerifyURL, timeout)
	}

	switch app.cfg.MailDriver {
	case MailDriverResend:
		app.mailer = upstream.NewResendMailer(app.cfg.ResendBaseURL, app.cfg.ResendAPIKey, app.cfg.MailFrom, timeout)
	case MailDriverSpool:
		app.mailer = &upstream.SpoolMailer{From: app.cfg.MailFrom, Dir: app.cfg.MailSpoolDir}
	default:
		app.mailer = &upstream.LogMailer{From: app.cfg.MailFrom, Logger: app.logger}
	}
	app.logger.Info("mail driver configured", "driver", app.cfg.MailDriver)

	app.geocoder = upstream.NewNominatimGeocoder(app.cfg.GeocodeBaseURL, app.cfg.GeocodeUserAgent, timeout)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		app.tenants.Collector(),
	)

	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Verifier:   app.verifier,
		Issuer:     app.cfg.Issuer,
		PendingTTL: app.cfg.PendingTTL,
		SessionTTL: app.cfg.SessionTTL,
	}

	app.accountService = &service.AccountService{
		Store:    app.db,
		Captcha:  app.captcha,
		Mailer:   app.mailer,
		Geocoder: app.geocoder,
	}

	app.sessionService = &service.SessionService{
		Store:   app.db,
		Tokens:  app.tokenService,
		Mailer:  app.mailer,
		CodeTTL: app.cfg.CodeTTL,
		Metrics: service.NewSessionMetrics(app.metrics),
	}

	app.dashboardService = &service.DashboardService{Tenants: app.tenants}
	if app.stats != nil {
		app.dashboardService.Cache = app.stats
	}

	app.bootstrapService = &service.BootstrapService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// bootstrap seeds the platform super admin on first start.
func (app *Application) bootstrap() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	created, err := app.bootstrapService.EnsureSuperAdmin(ctx, app.cfg.BootstrapAdmin)
	if err != nil {
		return fmt.Errorf("failed to bootstrap super admin: %w", err)
	}
	if created {
		app.logger.Info("super admin created", "login_id", app.cfg.BootstrapAdmin.LoginID)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		!app.cfg.IsProduction(),
		app.logger,
	)

	// Wire services to router
	router.AccountService = app.accountService
	router.SessionService = app.sessionService
	router.DashboardService = app.dashboardService
	router.Geocoder = app.geocoder
	router.Database = app.db
	router.Tenants = app.tenants
	if app.stats != nil {
		router.Cache = app.stats
	}
	router.CORSOrigins = app.cfg.CORSAllowedOrigins
	router.Metrics = httpx.NewHTTPMetrics(app.metrics)
	router.Gatherer = app.metrics
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
