package authsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, mux *http.ServeMux) *SDKClient {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewSDKClient(srv.URL + "/")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthenticateWithCode(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "demo_user", req.EmailID)
		writeJSON(w, http.StatusOK, LoginResponse{Token: "pending", ExpiresIn: 600, TwoFactorRequired: true})
	})
	mux.HandleFunc("POST /auth/send-2fa", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, SendCodeResponse{Message: "sent", ExpiresIn: 600})
	})
	mux.HandleFunc("POST /auth/verify-2fa", func(w http.ResponseWriter, r *http.Request) {
		var req VerifyCodeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "pending", req.Token)
		require.Equal(t, "123456", req.Code)
		writeJSON(w, http.StatusOK, SessionResponse{
			Token:     "session",
			TokenType: "Bearer",
			ExpiresIn: 3600,
			Account:   Account{ID: "acc-1", TenantDBName: "hss_demo_user"},
		})
	})
	mux.HandleFunc("GET /dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer session", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, DashboardStatsResponse{TotalStaff: 3, Compliance: ComplianceStats{Valid: 2, Invalid: 1}})
	})

	client := newTestServer(t, mux)
	ctx := context.Background()

	session, err := client.AuthenticateWithCode(ctx, "demo_user", "hss123demo", func(context.Context) (string, error) {
		return "123456", nil
	})
	require.NoError(t, err)
	require.Equal(t, "session", session.Token())
	require.Equal(t, "hss_demo_user", session.Account().TenantDBName)
	require.False(t, session.Expired())

	stats, err := session.DashboardStats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TotalStaff)
	require.Equal(t, int64(1), stats.Compliance.Invalid)
}

func TestAPIErrorsAreTyped(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		ErrAccountNotApproved.WriteError(w)
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		ErrValidationFailed.With(map[string]string{"email": "invalid format"}).WriteError(w)
	})
	mux.HandleFunc("POST /auth/send-2fa", func(w http.ResponseWriter, r *http.Request) {
		ErrUpstreamUnavailable.WriteError(w)
	})
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	client := newTestServer(t, mux)
	ctx := context.Background()

	_, err := client.Login(ctx, "x", "y")
	require.True(t, IsCode(err, ErrorCodeAccountNotApproved))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	_, err = client.Register(ctx, RegisterRequest{})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, ErrorCodeValidationFailed, apiErr.Code)
	require.Equal(t, "invalid format", apiErr.Details["email"])

	_, err = client.SendTwoFactorCode(ctx, "x")
	require.True(t, IsCode(err, ErrorCodeUpstreamUnavailable))

	_, err = client.GetLiveness(ctx)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestWriteErrorSetsRetryAfter(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ErrUpstreamUnavailable.WriteError(rec)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "5", rec.Header().Get("Retry-After"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, ErrorCodeUpstreamUnavailable, body.Error)
	require.Empty(t, body.Stack)
}

func TestAdminApprovalPaths(t *testing.T) {
	t.Parallel()

	var hits []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/admin/users", func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, "list:"+r.URL.Query().Get("status"))
		writeJSON(w, http.StatusOK, AccountListResponse{Accounts: []Account{{ID: "a1"}}})
	})
	mux.HandleFunc("PATCH /auth/admin/users/{id}/{action}", func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.PathValue("action")+":"+r.PathValue("id"))
		writeJSON(w, http.StatusOK, ApprovalResponse{Account: Account{ID: r.PathValue("id")}})
	})

	client := newTestServer(t, mux)
	session := client.NewSessionFromToken("tok", 3600)
	ctx := context.Background()

	accounts, err := session.ListAccounts(ctx, StatusPending)
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	_, err = session.ApproveAccount(ctx, "a1")
	require.NoError(t, err)
	_, err = session.RejectAccount(ctx, "a1")
	require.NoError(t, err)
	_, err = session.UnapproveAccount(ctx, "a1")
	require.NoError(t, err)

	require.Equal(t, []string{"list:pending", "approve:a1", "reject:a1", "unapprove:a1"}, hits)
}

func TestReadinessReportSurvivesNotReady(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "degraded",
			Checks: &HealthChecks{Database: "error: database is closed", Tenants: "ok", Cache: "disabled"},
		})
	})
	client := newTestServer(t, mux)

	ready, err := client.GetReadiness(context.Background())
	require.ErrorIs(t, err, ErrNotReady)
	require.Equal(t, "degraded", ready.Status)
	require.Equal(t, "error: database is closed", ready.Checks.Database)
}
