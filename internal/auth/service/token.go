package service

import (
	"fmt"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/pkg/jwtx"
)

// TokenService issues and checks the two kinds of session token: the
// pending token handed out after the password step and the full session
// token handed out after the second factor.
type TokenService struct {
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	PendingTTL time.Duration
	SessionTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

// IssuedToken is a signed token with its lifetime.
type IssuedToken struct {
	Token     string
	ExpiresIn time.Duration
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *TokenService) pendingTTL() time.Duration {
	if s.PendingTTL > 0 {
		return s.PendingTTL
	}
	return jwtx.DefaultPendingTokenTTL
}

func (s *TokenService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTokenTTL
}

// IssuePending signs a pending token for acc. It carries no role or tenant.
func (s *TokenService) IssuePending(acc domain.TenantAccount) (IssuedToken, error) {
	ttl := s.pendingTTL()
	token, err := s.Signer.Sign(jwtx.NewPendingClaims(acc.ID, s.Issuer, ttl, s.now()))
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign pending token: %w", err)
	}
	return IssuedToken{Token: token, ExpiresIn: ttl}, nil
}

// IssueSession signs a full session token carrying role and tenant.
func (s *TokenService) IssueSession(acc domain.TenantAccount) (IssuedToken, error) {
	ttl := s.sessionTTL()
	claims := jwtx.NewSessionClaims(acc.ID, acc.EmailID, string(acc.Role), acc.TenantDBName, s.Issuer, ttl, s.now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("sign session token: %w", err)
	}
	return IssuedToken{Token: token, ExpiresIn: ttl}, nil
}

// VerifyPending accepts only a valid, unexpired pending token. Every
// failure is ErrInvalidToken.
func (s *TokenService) VerifyPending(token string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if err := claims.ValidatePending(); err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return claims, nil
}
