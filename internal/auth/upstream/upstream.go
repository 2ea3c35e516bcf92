// Package upstream holds the clients for third-party services the auth
// service calls out to: reCAPTCHA, outbound mail and reverse geocoding.
package upstream

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrUnavailable wraps transport failures, timeouts and 5xx answers.
	ErrUnavailable = errors.New("upstream_unavailable")

	// ErrCaptchaRejected means the captcha service answered and said no.
	ErrCaptchaRejected = errors.New("captcha_rejected")
)

const (
	MinTimeout     = 5 * time.Second
	MaxTimeout     = 10 * time.Second
	DefaultTimeout = 8 * time.Second
)

// ClampTimeout keeps outbound timeouts within 5-10s. Zero means the default.
func ClampTimeout(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultTimeout
	case d < MinTimeout:
		return MinTimeout
	case d > MaxTimeout:
		return MaxTimeout
	}
	return d
}

func newClient(baseURL string, timeout time.Duration, userAgent string) *resty.Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if userAgent != "" {
		c.SetHeader("User-Agent", userAgent)
	}
	return c
}

// withRetry makes c retry once on transport errors and 5xx answers. Only
// idempotent lookups use it.
func withRetry(c *resty.Client) *resty.Client {
	return c.
		SetRetryCount(1).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
}

// check converts a resty outcome into nil or an ErrUnavailable-wrapped error.
// 4xx answers are returned as plain errors.
func check(service string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, service, err)
	}
	if resp.StatusCode() >= 500 {
		return fmt.Errorf("%w: %s: status %d", ErrUnavailable, service, resp.StatusCode())
	}
	if resp.IsError() {
		return fmt.Errorf("%s: status %d: %s", service, resp.StatusCode(), truncate(resp.String(), 200))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
