package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hsshealth/hss/internal/auth/service"
	"github.com/hsshealth/hss/internal/auth/upstream"
	"github.com/hsshealth/hss/pkg/httpx"
	"github.com/hsshealth/hss/pkg/jwtx"
	"github.com/hsshealth/hss/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/hsshealth/hss/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

var adminRoles = []string{"admin", "super_admin"}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	errors       ErrorWriter

	AccountService   *service.AccountService
	SessionService   *service.SessionService
	DashboardService *service.DashboardService
	Geocoder         upstream.Geocoder

	// Readiness dependencies. Cache may be nil.
	Database Pinger
	Tenants  Pinger
	Cache    Pinger

	// CORSOrigins are the browser origins allowed to call the API.
	CORSOrigins []string

	// Metrics and Gatherer back the HTTP collectors and /metrics. Both are
	// optional.
	Metrics  *httpx.HTTPMetrics
	Gatherer prometheus.Gatherer
}

// NewRouter creates a router. exposeDebug adds error chains and stack
// traces to error bodies and must be off in production.
func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	exposeDebug bool,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		errors:       ErrorWriter{ExposeDebug: exposeDebug},
	}
}

// ApplyRoutes registers every route and builds the global middleware chain.
// Set the service fields before calling it.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerDashboard()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	// Outermost first. Metrics must wrap the mux directly to see the
	// matched route pattern.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recoverer(r.errors.ExposeDebug),
		httpx.CORS(r.CORSOrigins),
	}
	if r.Metrics != nil {
		r.middlewares = append(r.middlewares, r.Metrics.Middleware())
	}
	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			HSS Authentication Service API
//	@version		0.1.0
//	@description	Registration, administrator approval and two-step login for hospitals using the HSS staff platform.
//	@description
//	@description				Session tokens are HS256 JWTs carrying the account role and the tenant database namespace.
//
//	@contact.name				HSS Platform Team
//	@contact.url				https://github.com/hsshealth/hss
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.handler == nil {
		http.Error(w, "router not initialised", http.StatusInternalServerError)
		return
	}
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Accounts: r.AccountService,
		Sessions: r.SessionService,
		Errors:   r.errors,
	}

	// POST /auth/register - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Login and both 2FA steps are limited by IP + emailId to slow down
	// password and code guessing against a single account.
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "emailId"),
		),
	)
	r.Mux.Handle("POST /auth/send-2fa",
		httpx.Chain(http.HandlerFunc(h.HandleSendCode),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "emailId"),
		),
	)
	r.Mux.Handle("POST /auth/verify-2fa",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyCode),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "emailId"),
		),
	)

	// GET /auth/me - lenient rate limit by user
	r.Mux.Handle("GET /auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.RequireSession(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	if r.Geocoder != nil {
		r.Mux.Handle("GET /auth/geocode",
			httpx.Chain(&GeocodeHandler{Geocoder: r.Geocoder, Errors: r.errors},
				httpx.RateLimitByIP(httpx.ModerateLimit),
			),
		)
	}
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Accounts: r.AccountService, Errors: r.errors}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireSession(r.verifier),
			httpx.RequireAnyRole(adminRoles...),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /auth/admin/users", secured(h.HandleList))
	r.Mux.Handle("PATCH /auth/admin/users/{id}/approve", secured(h.HandleApprove))
	r.Mux.Handle("PATCH /auth/admin/users/{id}/reject", secured(h.HandleReject))
	r.Mux.Handle("PATCH /auth/admin/users/{id}/unapprove", secured(h.HandleUnapprove))
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{Dashboard: r.DashboardService, Errors: r.errors}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireSession(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /dashboard/stats", secured(h.HandleStats))
	r.Mux.Handle("GET /dashboard/alerts", secured(h.HandleAlerts))
	r.Mux.Handle("GET /dashboard/shifts", secured(h.HandleShifts))
}

func (r *Router) registerSystem() {
	probes := &HealthProbes{
		Started:  r.startTime,
		Version:  r.buildVersion,
		Database: r.Database,
		Tenants:  r.Tenants,
		Cache:    r.Cache,
	}

	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(http.HandlerFunc(probes.Livez),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(http.HandlerFunc(probes.Readyz),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.Gatherer != nil {
		r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))
	}
}
