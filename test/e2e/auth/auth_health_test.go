package auth_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/hsshealth/hss/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLivezEndpoint verifies the liveness check endpoint works.
func TestLivezEndpoint(t *testing.T) {
	c := setupAuthContainer(t)
	client := authsdk.NewSDKClient(c.BaseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	t.Logf("Livez endpoint is healthy")
}

// TestReadyzEndpoint verifies the readiness check covers the credential
// database and tenant storage, and reports the cache as disabled.
func TestReadyzEndpoint(t *testing.T) {
	c := setupAuthContainer(t)
	client := authsdk.NewSDKClient(c.BaseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Tenants)
	require.Equal(t, "disabled", health.Checks.Cache)

	t.Logf("Readyz endpoint is healthy")
}

// TestMetricsAndSwagger verifies the operational endpoints are served.
func TestMetricsAndSwagger(t *testing.T) {
	c := setupAuthContainer(t)
	client := authsdk.NewSDKClient(c.BaseURL)

	_, err := client.GetLiveness(t.Context())
	require.NoError(t, err)

	for path, want := range map[string]string{
		"/metrics":          "hss_http_requests_total",
		"/swagger/doc.json": "/auth/verify-2fa",
	} {
		resp, err := http.Get(c.BaseURL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		require.Contains(t, string(body), want, path)
	}
}
