package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/store"
	"github.com/hsshealth/hss/internal/auth/upstream"
	"github.com/hsshealth/hss/pkg/cryptox"
	"github.com/hsshealth/hss/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultCodeTTL is how long an emailed one-time code stays valid.
	DefaultCodeTTL = 10 * time.Minute

	// MaxCodeAttempts is the number of wrong codes after which the
	// outstanding code is discarded.
	MaxCodeAttempts = 5
)

// Outcome labels for hss_two_factor_outcomes_total.
const (
	outcomeSuccess      = "success"
	outcomeInvalidToken = "invalid_token"
	outcomeNoCode       = "no_code"
	outcomeCodeExpired  = "code_expired"
	outcomeInvalidCode  = "invalid_code"
	outcomeNotApproved  = "not_approved"
	outcomeError        = "error"
)

// SessionMetrics counts second-factor verification results.
type SessionMetrics struct {
	outcomes *prometheus.CounterVec
}

func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	m := &SessionMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hss_two_factor_outcomes_total",
			Help: "Second factor verifications by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.outcomes)
	return m
}

func (m *SessionMetrics) observe(err error) {
	if m == nil {
		return
	}
	outcome := outcomeError
	switch {
	case err == nil:
		outcome = outcomeSuccess
	case errors.Is(err, ErrInvalidToken):
		outcome = outcomeInvalidToken
	case errors.Is(err, ErrNoCode):
		outcome = outcomeNoCode
	case errors.Is(err, ErrCodeExpired):
		outcome = outcomeCodeExpired
	case errors.Is(err, ErrInvalidCode):
		outcome = outcomeInvalidCode
	case errors.Is(err, ErrNotApproved):
		outcome = outcomeNotApproved
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

// SessionService negotiates a session in two steps: password, then an
// emailed one-time code.
type SessionService struct {
	Store   store.Store
	Tokens  *TokenService
	Mailer  upstream.Mailer
	CodeTTL time.Duration
	Metrics *SessionMetrics

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *SessionService) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultCodeTTL
}

// Login checks the password and the approval gate and returns a pending
// token. Unknown ids and wrong passwords are indistinguishable.
func (s *SessionService) Login(ctx context.Context, loginID, password string) (IssuedToken, error) {
	l := slogx.FromContext(ctx)
	loginID = strings.TrimSpace(loginID)

	acc, err := s.Store.Accounts().GetAccountByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same time as a real verification.
			cryptox.VerifyDummy(password)
			return IssuedToken{}, ErrInvalidCredentials
		}
		return IssuedToken{}, err
	}

	if !VerifyPassword(acc, password) {
		l.Info("login rejected", slog.String("account_id", acc.ID))
		return IssuedToken{}, ErrInvalidCredentials
	}

	if !acc.IsApproved {
		l.Info("login blocked pending approval", slog.String("account_id", acc.ID))
		return IssuedToken{}, ErrNotApproved
	}

	if acc.HasPendingCode() {
		if err := s.Store.Accounts().ClearTwoFactorCode(ctx, acc.ID); err != nil {
			return IssuedToken{}, fmt.Errorf("clear stale code: %w", err)
		}
	}

	return s.Tokens.IssuePending(acc)
}

// SendCode generates a fresh six digit code, replaces any outstanding one
// and mails it. It returns how long the code is valid.
func (s *SessionService) SendCode(ctx context.Context, loginID string) (time.Duration, error) {
	l := slogx.FromContext(ctx)

	acc, err := s.Store.Accounts().GetAccountByLoginID(ctx, strings.TrimSpace(loginID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if !acc.IsApproved {
		return 0, ErrNotApproved
	}

	code, err := cryptox.GenerateNumericCode()
	if err != nil {
		return 0, err
	}

	ttl := s.codeTTL()
	if err := s.Store.Accounts().SetTwoFactorCode(ctx, acc.ID, cryptox.FingerprintCode(code), s.now().Add(ttl)); err != nil {
		return 0, fmt.Errorf("store code: %w", err)
	}

	if err := s.Mailer.Send(ctx, upstream.TwoFactorCodeMessage(acc.Email, code, ttl)); err != nil {
		l.Error("two factor mail failed", slog.String("account_id", acc.ID), slog.Any("error", err))
		if !errors.Is(err, upstream.ErrUnavailable) {
			err = fmt.Errorf("%w: %w", upstream.ErrUnavailable, err)
		}
		return 0, err
	}

	l.Info("two factor code sent", slog.String("account_id", acc.ID))
	return ttl, nil
}

// SessionResult is a completed login.
type SessionResult struct {
	IssuedToken
	Account domain.TenantAccount
}

// VerifyCode completes the login. Checks run in a fixed order: the pending
// token, then that a code exists, then its expiry, then the code itself.
// The code is consumed atomically, so of two concurrent verifications only
// one succeeds and the other sees ErrNoCode.
func (s *SessionService) VerifyCode(ctx context.Context, pendingToken, loginID, code string) (res SessionResult, err error) {
	defer func() { s.Metrics.observe(err) }()

	acc, err := s.accountForPendingToken(ctx, pendingToken, strings.TrimSpace(loginID))
	if err != nil {
		return SessionResult{}, err
	}

	if !acc.HasPendingCode() {
		return SessionResult{}, ErrNoCode
	}

	now := s.now()
	if acc.TwoFactorExpiresAt == nil || now.After(*acc.TwoFactorExpiresAt) {
		return SessionResult{}, ErrCodeExpired
	}

	hash := cryptox.FingerprintCode(strings.TrimSpace(code))
	if subtle.ConstantTimeCompare([]byte(hash), []byte(*acc.TwoFactorCodeHash)) != 1 {
		return SessionResult{}, s.recordMismatch(ctx, acc)
	}

	if !acc.IsApproved {
		return SessionResult{}, ErrNotApproved
	}

	ok, err := s.Store.Accounts().ConsumeTwoFactorCode(ctx, acc.ID, hash, now)
	if err != nil {
		return SessionResult{}, fmt.Errorf("consume code: %w", err)
	}
	if !ok {
		return SessionResult{}, ErrNoCode
	}

	acc.TwoFactorCodeHash = nil
	acc.TwoFactorExpiresAt = nil
	acc.TwoFactorAttempts = 0
	acc.LastLogin = &now

	issued, err := s.Tokens.IssueSession(acc)
	if err != nil {
		return SessionResult{}, err
	}

	slogx.FromContext(ctx).Info("session issued",
		slog.String("account_id", acc.ID),
		slog.String("tenant", acc.TenantDBName),
	)
	return SessionResult{IssuedToken: issued, Account: acc}, nil
}

// accountForPendingToken checks the pending token and that it belongs to
// the account named by loginID. An empty loginID falls back to the token
// subject.
func (s *SessionService) accountForPendingToken(ctx context.Context, token, loginID string) (domain.TenantAccount, error) {
	claims, err := s.Tokens.VerifyPending(token)
	if err != nil {
		return domain.TenantAccount{}, err
	}

	var acc domain.TenantAccount
	if loginID == "" {
		acc, err = s.Store.Accounts().GetAccountByID(ctx, claims.Subject)
	} else {
		acc, err = s.Store.Accounts().GetAccountByLoginID(ctx, loginID)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TenantAccount{}, ErrInvalidToken
		}
		return domain.TenantAccount{}, err
	}

	if acc.ID != claims.Subject {
		return domain.TenantAccount{}, fmt.Errorf("%w: token issued for another account", ErrInvalidToken)
	}
	return acc, nil
}

func (s *SessionService) recordMismatch(ctx context.Context, acc domain.TenantAccount) error {
	attempts, err := s.Store.Accounts().IncrementTwoFactorAttempts(ctx, acc.ID)
	if err != nil {
		return fmt.Errorf("count attempt: %w", err)
	}
	if attempts >= MaxCodeAttempts {
		if err := s.Store.Accounts().ClearTwoFactorCode(ctx, acc.ID); err != nil {
			return fmt.Errorf("discard code: %w", err)
		}
		slogx.FromContext(ctx).Warn("two factor code discarded after repeated failures",
			slog.String("account_id", acc.ID),
			slog.Int("attempts", attempts),
		)
	}
	return ErrInvalidCode
}
