package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hsshealth/hss/internal/auth/service"
)

const (
	TenantDriverSQLite   = "sqlite"
	TenantDriverPostgres = "postgres"

	MailDriverLog    = "log"
	MailDriverSpool  = "spool"
	MailDriverResend = "resend"
)

type Config struct {
	DatabaseDSN   string        // Required: sqlite DSN or path of the credential database
	SigningSecret string        // Required: HMAC secret for HS256 session tokens
	Issuer        string        // Optional: issuer claim for tokens (default: hss-auth)
	SessionTTL    time.Duration // Full session token lifetime (default: 1h)
	PendingTTL    time.Duration // Pending-2FA token lifetime (default: 10m)
	CodeTTL       time.Duration // One-time code lifetime (default: 10m)

	TenantDriver string // sqlite (file per tenant) or postgres (schema per tenant) (default: sqlite)
	TenantDSN    string // Directory for sqlite, base DSN for postgres (default: ./tenants)

	RedisURL      string        // Optional: enables the dashboard stats cache
	StatsCacheTTL time.Duration // Stats cache TTL (default: 30s)

	RecaptchaSecret    string // Optional: empty disables captcha verification
	RecaptchaVerifyURL string // Optional: override of the siteverify endpoint

	MailDriver    string // log, spool or resend (default: log)
	MailFrom      string // Sender address
	MailSpoolDir  string // Spool directory for the spool driver (default: ./mail)
	ResendAPIKey  string // Required for the resend driver
	ResendBaseURL string // Resend API base URL

	GeocodeBaseURL   string        // Nominatim base URL
	GeocodeUserAgent string        // User agent sent to Nominatim
	OutboundTimeout  time.Duration // Timeout for every third-party call, clamped to 5-10s (default: 8s)

	CORSAllowedOrigins []string // Browser origins allowed to call the API

	BootstrapAdmin service.BootstrapAdmin // Optional: seeds an approved super admin once

	PepperFile           string        // Path to the argon2 pepper file (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired code cleanup interval (default: 5m)
}

func LoadConfig() Config {
	return Config{
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		SigningSecret: os.Getenv("AUTH_SIGNING_SECRET"),
		Issuer:        getEnvOrDefault("AUTH_ISSUER", "hss-auth"),
		SessionTTL:    getEnvDurationOrDefault("SESSION_TTL", time.Hour),
		PendingTTL:    getEnvDurationOrDefault("PENDING_TOKEN_TTL", 10*time.Minute),
		CodeTTL:       getEnvDurationOrDefault("TWO_FACTOR_CODE_TTL", service.DefaultCodeTTL),

		TenantDriver: strings.ToLower(getEnvOrDefault("TENANT_DRIVER", TenantDriverSQLite)),
		TenantDSN:    getEnvOrDefault("TENANT_DSN", "./tenants"),

		RedisURL:      os.Getenv("REDIS_URL"),
		StatsCacheTTL: getEnvDurationOrDefault("STATS_CACHE_TTL", 30*time.Second),

		RecaptchaSecret:    os.Getenv("RECAPTCHA_SECRET"),
		RecaptchaVerifyURL: getEnvOrDefault("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),

		MailDriver:    strings.ToLower(getEnvOrDefault("MAIL_DRIVER", MailDriverLog)),
		MailFrom:      getEnvOrDefault("MAIL_FROM", "HSS <no-reply@hss.local>"),
		MailSpoolDir:  getEnvOrDefault("MAIL_SPOOL_DIR", "./mail"),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		ResendBaseURL: getEnvOrDefault("RESEND_BASE_URL", "https://api.resend.com"),

		GeocodeBaseURL:   getEnvOrDefault("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeUserAgent: getEnvOrDefault("GEOCODE_USER_AGENT", "hss-auth/"+BuildVersion),
		OutboundTimeout:  getEnvDurationOrDefault("OUTBOUND_TIMEOUT", 8*time.Second),

		CORSAllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),

		BootstrapAdmin: service.BootstrapAdmin{
			LoginID:  os.Getenv("BOOTSTRAP_ADMIN_LOGIN_ID"),
			Email:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
			Password: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		},

		PepperFile:           getEnvOrDefault("PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 5*time.Minute),
	}
}

// Validate reports every setting the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN is required"))
	}
	if c.SigningSecret == "" {
		errs = append(errs, errors.New("AUTH_SIGNING_SECRET is required"))
	}

	switch c.TenantDriver {
	case TenantDriverSQLite, TenantDriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("TENANT_DRIVER %q is not one of sqlite, postgres", c.TenantDriver))
	}

	switch c.MailDriver {
	case MailDriverLog, MailDriverSpool:
	case MailDriverResend:
		if c.ResendAPIKey == "" {
			errs = append(errs, errors.New("RESEND_API_KEY is required for the resend mail driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_DRIVER %q is not one of log, spool, resend", c.MailDriver))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether error bodies must omit debug detail.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "prod") || strings.EqualFold(c.Env, "production")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
