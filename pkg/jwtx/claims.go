package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes for the two-step login.
const (
	// DefaultPendingTokenTTL bounds the window between a password check and
	// the second factor.
	DefaultPendingTokenTTL = 10 * time.Minute

	// DefaultSessionTokenTTL is the lifetime of a full session token.
	DefaultSessionTokenTTL = time.Hour
)

// Claims are the session claims shared by every service that consumes the
// auth tokens. A token is either pending (TwoFAPending set, no role or
// tenant) or a full session (role and tenant set, never pending).
type Claims struct {
	jwt.RegisteredClaims

	// TwoFAPending marks a token that only proves the password step.
	TwoFAPending bool `json:"twoFAPending,omitempty"`

	// Role is the account role (hospital_admin, admin, super_admin).
	Role string `json:"role,omitempty"`

	// Tenant is the tenant database namespace, e.g. "hss_demo_user".
	Tenant string `json:"tenant,omitempty"`

	// LoginID is the login identifier the session was opened with.
	LoginID string `json:"loginId,omitempty"`
}

// NewPendingClaims builds the claims carried between password check and
// second factor.
func NewPendingClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		TwoFAPending:     true,
	}
}

// NewSessionClaims builds full session claims.
func NewSessionClaims(subject, loginID, role, tenant, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(subject, issuer, ttl, now),
		Role:             role,
		Tenant:           tenant,
		LoginID:          loginID,
	}
}

func registered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer rejects a token minted by another issuer. An empty
// expectation accepts any.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateTimes checks exp and nbf against now, allowing leeway either way
// for clock skew. Absent claims are not enforced.
func (c *Claims) ValidateTimes(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

// ValidatePending accepts only pending-2FA tokens.
func (c *Claims) ValidatePending() error {
	if !c.TwoFAPending || c.Subject == "" {
		return ErrWrongTokenKind
	}
	return nil
}

// ValidateSession accepts only full session tokens: not pending and carrying a
// role. The tenant claim is checked by the handlers that need one.
func (c *Claims) ValidateSession() error {
	if c.TwoFAPending || c.Subject == "" || c.Role == "" {
		return ErrWrongTokenKind
	}
	return nil
}
