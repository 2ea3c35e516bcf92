package authsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotReady is returned by GetReadiness when the service answers 503. The
// report returned with it says which dependency failed.
var ErrNotReady = errors.New("authsdk: service not ready")

// GetLiveness reports whether the auth process is up.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	report, code, err := c.probe(ctx, "/livez")
	if err == nil && code != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", code)
	}
	return report, err
}

// GetReadiness reports the credential database, tenant storage and cache
// checks. A 503 yields the report together with ErrNotReady.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	report, code, err := c.probe(ctx, "/readyz")
	if err == nil && code == http.StatusServiceUnavailable {
		return report, ErrNotReady
	}
	return report, err
}

// probe fetches a health endpoint. The probes answer 200 or 503 with a
// HealthResponse; anything else (a rate limit, a proxy error) is returned
// as an *APIError.
func (c *SDKClient) probe(ctx context.Context, path string) (*HealthResponse, int, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		if apiErr := parseErrorResponse(resp, body); apiErr != nil {
			return nil, resp.StatusCode, apiErr
		}
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var report HealthResponse
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &report, resp.StatusCode, nil
}
