package http

import (
	"context"
	"net/http"
	"time"

	"github.com/hsshealth/hss/pkg/authsdk"
	"github.com/hsshealth/hss/pkg/httpx"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readyzTimeout = 2 * time.Second

// HealthProbes serves the liveness and readiness endpoints. Cache is
// optional; Database and Tenants are not.
type HealthProbes struct {
	Started  time.Time
	Version  string
	Database Pinger
	Tenants  Pinger
	Cache    Pinger
}

func (p *HealthProbes) report(status string, checks *authsdk.HealthChecks) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(p.Started).Truncate(time.Second).String(),
		Version: p.Version,
		Checks:  checks,
	}
}

// Livez godoc
//
//	@Summary		Liveness probe
//	@Description	Reports that the auth process is up, with uptime and build version. Never touches a dependency.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (p *HealthProbes) Livez(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, p.report("ok", nil))
}

// Readyz godoc
//
//	@Summary		Readiness probe
//	@Description	Pings the credential database, the tenant storage and, when configured, the stats cache.
//	@Description	A failing cache degrades the status but keeps 200; the other two return 503.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"credential database or tenant storage unreachable"
//	@Router			/readyz [get].
func (p *HealthProbes) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	checks := &authsdk.HealthChecks{
		Database: probe(ctx, p.Database),
		Tenants:  probe(ctx, p.Tenants),
		Cache:    "disabled",
	}
	if p.Cache != nil {
		checks.Cache = probe(ctx, p.Cache)
	}

	status, code := "ok", http.StatusOK
	if checks.Cache != "ok" && checks.Cache != "disabled" {
		status = "degraded"
	}
	if checks.Database != "ok" || checks.Tenants != "ok" {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, code, p.report(status, checks))
}

func probe(ctx context.Context, dep Pinger) string {
	if err := dep.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
