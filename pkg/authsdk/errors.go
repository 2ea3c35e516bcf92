package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hsshealth/hss/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeValidationFailed    = "validation_failed"
	ErrorCodeAlreadyExists       = "already_exists"
	ErrorCodeCaptchaFailed       = "captcha_failed"
	ErrorCodeAccountNotFound     = "account_not_found"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeAccountNotApproved  = "account_not_approved"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeNoCode              = "no_code"
	ErrorCodeCodeExpired         = "code_expired"
	ErrorCodeInvalidCode         = "invalid_code"
	ErrorCodeMissingTenantClaim  = "missing_tenant_claim"
	ErrorCodeUpstreamUnavailable = "upstream_unavailable"
	ErrorCodeTenantUnavailable   = "tenant_unavailable"
	ErrorCodeRateLimitExceeded   = "rate_limit_exceeded"
	ErrorCodeServerError         = "server_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is the error body shared by the server and the SDK. The server
// writes it with WriteError; the SDK returns it for every non-2xx response.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the stable error code
	Code string `json:"error"`

	// Message is a human-readable description of the error
	Message string `json:"message"`

	// Details carries per-field reasons (validation and conflict errors)
	Details map[string]string `json:"details,omitempty"`

	// Detail and Stack are only populated outside production.
	Detail string `json:"detail,omitempty"`
	Stack  string `json:"stack,omitempty"`

	// RetryAfter is set for 503 responses that may be retried (seconds).
	RetryAfter int `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	if e.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", e.RetryAfter))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// With returns a copy carrying the given field details.
func (e *APIError) With(details map[string]string) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithDebug returns a copy carrying the internal error chain and stack.
func (e *APIError) WithDebug(detail, stack string) *APIError {
	cp := *e
	cp.Detail = detail
	cp.Stack = stack
	return &cp
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// NewAPIError creates an APIError with the given status code, error code, and message.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
		Message:    "the request body is malformed",
	}

	ErrValidationFailed = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeValidationFailed,
		Message:    "one or more fields are missing or invalid",
	}

	ErrAlreadyExists = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeAlreadyExists,
		Message:    "an account with these details already exists",
	}

	ErrCaptchaFailed = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeCaptchaFailed,
		Message:    "reCAPTCHA verification failed",
	}

	ErrAccountNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeAccountNotFound,
		Message:    "account not found",
	}

	// ErrInvalidCredentials is identical for unknown login ids and wrong passwords.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidCredentials,
		Message:    "invalid credentials",
	}

	ErrInvalidToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidToken,
		Message:    "invalid or expired token",
	}

	ErrAccountNotApproved = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeAccountNotApproved,
		Message:    "account is pending administrator approval",
	}

	ErrForbidden = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeForbidden,
		Message:    "insufficient role",
	}

	ErrNoCode = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeNoCode,
		Message:    "no verification code has been requested",
	}

	ErrCodeExpired = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeCodeExpired,
		Message:    "verification code has expired",
	}

	ErrInvalidCode = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidCode,
		Message:    "verification code does not match",
	}

	ErrMissingTenantClaim = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeMissingTenantClaim,
		Message:    "token does not carry a tenant",
	}

	ErrUpstreamUnavailable = &APIError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       ErrorCodeUpstreamUnavailable,
		Message:    "a dependent service is unavailable, try again shortly",
		RetryAfter: 5,
	}

	ErrTenantUnavailable = &APIError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       ErrorCodeTenantUnavailable,
		Message:    "tenant data is unavailable",
	}

	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "internal server error",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse converts a non-2xx response into an *APIError.
// Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Error,
			Message:    errResp.Message,
			Details:    errResp.Details,
			Detail:     errResp.Detail,
			Stack:      errResp.Stack,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
