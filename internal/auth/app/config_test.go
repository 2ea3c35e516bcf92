package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// clearEnv blanks variables the host environment may already define.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t, "AUTH_ISSUER", "SESSION_TTL", "PENDING_TOKEN_TTL", "TWO_FACTOR_CODE_TTL",
		"TENANT_DRIVER", "TENANT_DSN", "STATS_CACHE_TTL", "MAIL_DRIVER", "CORS_ALLOWED_ORIGINS",
		"PORT", "ENV", "HOUSEKEEPING_INTERVAL", "BOOTSTRAP_ADMIN_LOGIN_ID", "BOOTSTRAP_ADMIN_EMAIL",
		"BOOTSTRAP_ADMIN_PASSWORD")
	t.Setenv("DATABASE_DSN", "hss.db")
	t.Setenv("AUTH_SIGNING_SECRET", "0123456789abcdef0123456789abcdef")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	require.Equal(t, "hss-auth", cfg.Issuer)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, 10*time.Minute, cfg.PendingTTL)
	require.Equal(t, 10*time.Minute, cfg.CodeTTL)
	require.Equal(t, TenantDriverSQLite, cfg.TenantDriver)
	require.Equal(t, "./tenants", cfg.TenantDSN)
	require.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	require.Equal(t, MailDriverLog, cfg.MailDriver)
	require.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.HousekeepingInterval)
	require.True(t, cfg.BootstrapAdmin.Empty())
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("TWO_FACTOR_CODE_TTL", "5")
	t.Setenv("TENANT_DRIVER", "Postgres")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.hss.example , ,https://admin.hss.example")
	t.Setenv("PORT", "not-a-port")
	t.Setenv("ENV", "prod")
	t.Setenv("BOOTSTRAP_ADMIN_LOGIN_ID", "platform_admin")

	cfg := LoadConfig()
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, 5*time.Minute, cfg.CodeTTL)
	require.Equal(t, TenantDriverPostgres, cfg.TenantDriver)
	require.Equal(t, []string{"https://app.hss.example", "https://admin.hss.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 8080, cfg.Port)
	require.True(t, cfg.IsProduction())
	require.Equal(t, "platform_admin", cfg.BootstrapAdmin.LoginID)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		DatabaseDSN:   "hss.db",
		SigningSecret: "secret",
		TenantDriver:  TenantDriverSQLite,
		MailDriver:    MailDriverLog,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing dsn", func(c *Config) { c.DatabaseDSN = "" }, "DATABASE_DSN"},
		{"missing secret", func(c *Config) { c.SigningSecret = "" }, "AUTH_SIGNING_SECRET"},
		{"unknown tenant driver", func(c *Config) { c.TenantDriver = "mysql" }, "TENANT_DRIVER"},
		{"unknown mail driver", func(c *Config) { c.MailDriver = "smtp" }, "MAIL_DRIVER"},
		{"resend without key", func(c *Config) { c.MailDriver = MailDriverResend }, "RESEND_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	require.Equal(t, ":memory:", databaseDSN(":memory:"))
	require.Equal(t, "file:x.db?mode=ro", databaseDSN("file:x.db?mode=ro"))
	require.Equal(t, "file:/data/hss.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", databaseDSN("/data/hss.db"))
}
