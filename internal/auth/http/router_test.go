package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hsshealth/hss/internal/auth/cache"
	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/upstream"
	"github.com/hsshealth/hss/pkg/authsdk"
	"github.com/hsshealth/hss/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegistrationApprovalAndDashboard(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	reg, err := h.client.Register(ctx, registration("demo_user"))
	require.NoError(t, err)
	require.Equal(t, "hss_demo_user", reg.Account.TenantDBName)
	require.Equal(t, authsdk.StatusPending, reg.Account.Status)
	require.False(t, reg.Account.IsApproved)

	// Unapproved accounts stop at the password step.
	_, err = h.client.Login(ctx, "demo_user", "hss123demo")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeAccountNotApproved), err)

	admin := h.adminSession(t)
	pending, err := admin.ListAccounts(ctx, authsdk.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, reg.Account.ID, pending[0].ID)

	approved, err := admin.ApproveAccount(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.True(t, approved.IsApproved)

	m, err := h.tenants.Models(ctx, "hss_demo_user")
	require.NoError(t, err)
	expiry := time.Now().Add(30 * 24 * time.Hour)
	staff := domain.Staff{FirstName: "Thandi", LastName: "Nkosi", Email: "thandi@demo", Department: "ICU", CertificationExpiry: &expiry}
	require.NoError(t, m.Staff.Create(ctx, &staff))
	require.NoError(t, m.Shifts.Create(ctx, &domain.Shift{
		StaffID:    staff.ID,
		Department: "ICU",
		StartTime:  time.Now().Add(-time.Hour),
		EndTime:    time.Now().Add(7 * time.Hour),
		Status:     domain.ShiftInProgress,
	}))
	require.NoError(t, m.Alerts.Create(ctx, &domain.Alert{Title: "Cert", Level: domain.AlertLow}))

	sess := h.login(t, "demo_user", "hss123demo", "demo_user@demo.example")
	require.Equal(t, "hospital_admin", sess.Account().Role)

	me, err := sess.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, reg.Account.ID, me.ID)
	require.NotNil(t, me.LastLogin)

	stats, err := sess.DashboardStats(ctx)
	require.NoError(t, err)
	require.Equal(t, &authsdk.DashboardStatsResponse{
		TotalStaff:   1,
		ActiveShifts: 1,
		Compliance:   authsdk.ComplianceStats{Valid: 1},
		UnreadAlerts: 1,
	}, stats)

	shifts, err := sess.DashboardShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	require.Equal(t, "Thandi Nkosi", shifts[0].Name)

	alerts, err := sess.DashboardAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	// Hospital admins are not platform admins.
	_, err = sess.ListAccounts(ctx, "")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeForbidden), err)
}

func TestAdminRejectAndUnapprove(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	reg, err := h.client.Register(ctx, registration("demo_user"))
	require.NoError(t, err)
	admin := h.adminSession(t)

	rejected, err := admin.RejectAccount(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.Equal(t, authsdk.StatusRejected, rejected.Status)

	listed, err := admin.ListAccounts(ctx, authsdk.StatusRejected)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	_, err = admin.ApproveAccount(ctx, reg.Account.ID)
	require.NoError(t, err)
	back, err := admin.UnapproveAccount(ctx, reg.Account.ID)
	require.NoError(t, err)
	require.Equal(t, authsdk.StatusPending, back.Status)

	_, err = admin.ApproveAccount(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeAccountNotFound), err)

	_, err = admin.ListAccounts(ctx, "archived")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeValidationFailed), err)
}

func TestErrorResponses(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	incomplete := registration("demo_user")
	incomplete.Email = ""
	incomplete.Password = "short"

	tests := []struct {
		name    string
		method  string
		path    string
		payload any
		status  int
		code    string
		details []string
	}{
		{"malformed json", http.MethodPost, "/auth/login", "{", http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, nil},
		{"validation", http.MethodPost, "/auth/register", incomplete, http.StatusBadRequest, authsdk.ErrorCodeValidationFailed, []string{"email", "password"}},
		{"unknown login id", http.MethodPost, "/auth/login", authsdk.LoginRequest{EmailID: "nobody", Password: "hss123demo"}, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials, nil},
		{"wrong password", http.MethodPost, "/auth/login", authsdk.LoginRequest{EmailID: adminLoginID, Password: "wrong-password"}, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials, nil},
		{"send code to unknown", http.MethodPost, "/auth/send-2fa", authsdk.SendCodeRequest{EmailID: "nobody"}, http.StatusNotFound, authsdk.ErrorCodeAccountNotFound, nil},
		{"verify without token", http.MethodPost, "/auth/verify-2fa", authsdk.VerifyCodeRequest{EmailID: adminLoginID, Code: "123456"}, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken, nil},
		{"dashboard without token", http.MethodGet, "/dashboard/stats", nil, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.do(t, tt.method, tt.path, tt.payload, "")
			require.Equal(t, tt.status, status, string(body))

			resp := decodeError(t, body)
			require.Equal(t, tt.code, resp.Error)
			require.NotEmpty(t, resp.Message)
			require.Empty(t, resp.Detail)
			require.Empty(t, resp.Stack)
			for _, field := range tt.details {
				require.Contains(t, resp.Details, field)
			}
		})
	}
}

func TestDuplicateRegistration(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	_, err := h.client.Register(ctx, registration("demo_user"))
	require.NoError(t, err)

	dup := registration("Demo.User")
	dup.Email = "other@demo.example"
	_, err = h.client.Register(ctx, dup)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeAlreadyExists, apiErr.Code)
	require.NotEmpty(t, apiErr.Details)
}

func TestVerifyCodeFlow(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()

	login, err := h.client.Login(ctx, adminLoginID, adminPassword)
	require.NoError(t, err)
	require.True(t, login.TwoFactorRequired)
	require.Positive(t, login.ExpiresIn)

	// No code has been sent yet.
	_, err = h.client.VerifyTwoFactorCode(ctx, login.Token, adminLoginID, "000000")
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeNoCode), err)

	sent, err := h.client.SendTwoFactorCode(ctx, adminLoginID)
	require.NoError(t, err)
	require.Equal(t, 600, sent.ExpiresIn)

	code, err := h.mailer.codes(adminEmail)(ctx)
	require.NoError(t, err)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = h.client.VerifyTwoFactorCode(ctx, login.Token, adminLoginID, wrong)
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeInvalidCode), err)

	// The pending token is accepted from the Authorization header as well.
	status, body := h.do(t, http.MethodPost, "/auth/verify-2fa",
		authsdk.VerifyCodeRequest{EmailID: adminLoginID, Code: code}, login.Token)
	require.Equal(t, http.StatusOK, status, string(body))

	var session authsdk.SessionResponse
	require.NoError(t, json.Unmarshal(body, &session))
	require.Equal(t, "Bearer", session.TokenType)
	require.Equal(t, 3600, session.ExpiresIn)
	require.Equal(t, "super_admin", session.Account.Role)

	// A pending token never opens a session route.
	status, body = h.do(t, http.MethodGet, "/auth/me", nil, login.Token)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, authsdk.ErrorCodeInvalidToken, decodeError(t, body).Error)
}

func TestSessionTokenChecks(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	now := time.Now()

	sign := func(c jwtx.Claims) string {
		tok, err := h.signer.Sign(c)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name   string
		token  string
		status int
		code   string
	}{
		{"garbage", "not-a-jwt", http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken},
		{"wrong issuer", sign(jwtx.NewSessionClaims("acc", "demo", "hospital_admin", "hss_demo", "someone-else", time.Hour, now)), http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken},
		{"expired", sign(jwtx.NewSessionClaims("acc", "demo", "hospital_admin", "hss_demo", testIssuer, time.Minute, now.Add(-time.Hour))), http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken},
		{"pending", sign(jwtx.NewPendingClaims("acc", testIssuer, time.Minute, now)), http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken},
		{"no tenant", sign(jwtx.NewSessionClaims("acc", "demo", "hospital_admin", "", testIssuer, time.Hour, now)), http.StatusBadRequest, authsdk.ErrorCodeMissingTenantClaim},
		{"invalid tenant", sign(jwtx.NewSessionClaims("acc", "demo", "hospital_admin", "../etc", testIssuer, time.Hour, now)), http.StatusServiceUnavailable, authsdk.ErrorCodeTenantUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.do(t, http.MethodGet, "/dashboard/stats", nil, tt.token)
			require.Equal(t, tt.status, status, string(body))
			require.Equal(t, tt.code, decodeError(t, body).Error)
		})
	}
}

type failingOpener struct{}

func (failingOpener) Open(context.Context, string) (*gorm.DB, error) {
	return nil, errors.New("connection refused")
}
func (failingOpener) Release(string, *gorm.DB) error { return nil }
func (failingOpener) Ping(context.Context) error     { return errors.New("connection refused") }
func (failingOpener) Close() error                   { return nil }

func TestTenantUnavailable(t *testing.T) {
	h := newHarness(t, harnessOptions{opener: failingOpener{}})
	admin := h.adminSession(t)

	status, body := h.do(t, http.MethodGet, "/dashboard/stats", nil, admin.Token())
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Equal(t, authsdk.ErrorCodeTenantUnavailable, decodeError(t, body).Error)

	ready, err := h.client.GetReadiness(context.Background())
	require.ErrorIs(t, err, authsdk.ErrNotReady)
	require.Equal(t, "degraded", ready.Status)
	require.Equal(t, "error: connection refused", ready.Checks.Tenants)
	require.Equal(t, "ok", ready.Checks.Database)
}

func TestDebugDetailOutsideProduction(t *testing.T) {
	h := newHarness(t, harnessOptions{exposeDebug: true})
	admin := h.adminSession(t)

	status, body := h.do(t, http.MethodPost, "/auth/login", "{", "")
	require.Equal(t, http.StatusBadRequest, status)
	resp := decodeError(t, body)
	require.NotEmpty(t, resp.Detail)
	require.Empty(t, resp.Stack)

	// Unexpected failures carry a stack trace.
	require.NoError(t, h.store.Close())
	status, body = h.do(t, http.MethodGet, "/auth/me", nil, admin.Token())
	require.Equal(t, http.StatusInternalServerError, status)
	resp = decodeError(t, body)
	require.Equal(t, authsdk.ErrorCodeServerError, resp.Error)
	require.NotEmpty(t, resp.Detail)
	require.NotEmpty(t, resp.Stack)
}

func TestGeocode(t *testing.T) {
	geo := &fakeGeocoder{addr: "1 Main Rd, Johannesburg"}
	h := newHarness(t, harnessOptions{geocoder: geo})
	ctx := context.Background()

	resp, err := h.client.ReverseGeocode(ctx, -26.2, 28.04)
	require.NoError(t, err)
	require.Equal(t, "1 Main Rd, Johannesburg", resp.Address)

	geo.addr, geo.err = "", upstream.ErrNoAddress
	resp, err = h.client.ReverseGeocode(ctx, 0, 0)
	require.NoError(t, err)
	require.Empty(t, resp.Address)

	_, err = h.client.ReverseGeocode(ctx, 95, 0)
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeValidationFailed), err)

	geo.err = upstream.ErrUnavailable
	_, err = h.client.ReverseGeocode(ctx, 1, 1)
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeUpstreamUnavailable), err)
}

func TestGeocodeDisabled(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	status, _ := h.do(t, http.MethodGet, "/auth/geocode?lat=1&lon=1", nil, "")
	require.Equal(t, http.StatusNotFound, status)
}

func TestHealthEndpoints(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := cache.Connect("redis://" + mr.Addr())
	require.NoError(t, err)
	stats := cache.NewStatsCache(rdb, time.Minute)
	t.Cleanup(func() { _ = stats.Close() })

	h := newHarness(t, harnessOptions{cache: stats})
	ctx := context.Background()

	live, err := h.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := h.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, &authsdk.HealthChecks{Database: "ok", Tenants: "ok", Cache: "ok"}, ready.Checks)

	// A lost cache degrades readiness without failing it.
	mr.Close()
	status, body := h.do(t, http.MethodGet, "/readyz", nil, "")
	require.Equal(t, http.StatusOK, status)
	var degraded authsdk.HealthResponse
	require.NoError(t, json.Unmarshal(body, &degraded))
	require.Equal(t, "degraded", degraded.Status)
	require.True(t, strings.HasPrefix(degraded.Checks.Cache, "error: "))

	// A lost credential database fails it.
	require.NoError(t, h.store.Close())
	status, body = h.do(t, http.MethodGet, "/readyz", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, status, string(body))
}

func TestReadyzWithoutCache(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	ready, err := h.client.GetReadiness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "disabled", ready.Checks.Cache)
}

func TestMetricsAndDocs(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.adminSession(t)

	status, body := h.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), `hss_http_requests_total{method="POST",route="POST /auth/login",status="200"} 1`)
	require.Contains(t, string(body), `hss_two_factor_outcomes_total{outcome="success"} 1`)

	status, body = h.do(t, http.MethodGet, "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "/auth/verify-2fa")
}
