package http

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/service"
	"github.com/hsshealth/hss/internal/auth/tenant"
	"github.com/hsshealth/hss/internal/auth/upstream"
	"github.com/hsshealth/hss/pkg/authsdk"
	"github.com/hsshealth/hss/pkg/httpx"
	"github.com/hsshealth/hss/pkg/slogx"
)

// sentinels maps service errors onto their wire form. Order matters only
// for errors that wrap more than one sentinel.
var sentinels = []struct {
	err error
	api *authsdk.APIError
}{
	{service.ErrInvalidToken, authsdk.ErrInvalidToken},
	{service.ErrInvalidCredentials, authsdk.ErrInvalidCredentials},
	{service.ErrNotApproved, authsdk.ErrAccountNotApproved},
	{service.ErrForbidden, authsdk.ErrForbidden},
	{service.ErrNotFound, authsdk.ErrAccountNotFound},
	{service.ErrNoCode, authsdk.ErrNoCode},
	{service.ErrCodeExpired, authsdk.ErrCodeExpired},
	{service.ErrInvalidCode, authsdk.ErrInvalidCode},
	{service.ErrMissingTenant, authsdk.ErrMissingTenantClaim},
	{upstream.ErrCaptchaRejected, authsdk.ErrCaptchaFailed},
	{upstream.ErrUnavailable, authsdk.ErrUpstreamUnavailable},
	{tenant.ErrTenantNotFound, authsdk.ErrTenantUnavailable},
	{httpx.ErrBadJSON, authsdk.ErrInvalidRequest},
}

// ErrorWriter renders errors as authsdk.APIError bodies. With ExposeDebug
// set the body also carries the error chain and, for unexpected errors, a
// stack trace.
type ErrorWriter struct {
	ExposeDebug bool
}

// APIError maps err onto the error taxonomy. The second result reports
// whether err was an expected one.
func APIError(err error) (*authsdk.APIError, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return authsdk.ErrValidationFailed.With(ve.Fields), true
	}

	var ce *service.ConflictError
	if errors.As(err, &ce) {
		return authsdk.ErrAlreadyExists.With(map[string]string{ce.Field: "already registered"}), true
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.api, true
		}
	}
	return authsdk.ErrServerError, false
}

func (e ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	apiErr, known := APIError(err)
	switch {
	case !known:
		log.Error("request failed", "err", err)
	case apiErr.StatusCode >= http.StatusInternalServerError:
		log.Warn("dependency unavailable", "err", err)
	default:
		log.Info("request rejected", "code", apiErr.Code, "err", err)
	}

	if e.ExposeDebug {
		stack := ""
		if !known {
			stack = string(debug.Stack())
		}
		apiErr = apiErr.WithDebug(err.Error(), stack)
	}
	apiErr.WriteError(w)
}
