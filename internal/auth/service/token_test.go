package service

import (
	"testing"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceKinds(t *testing.T) {
	f := newFixture(t)

	acc := domain.TenantAccount{
		ID:           "01HZX0000000000000000000AB",
		EmailID:      "demo_user",
		TenantDBName: "hss_demo_user",
		Role:         domain.RoleHospitalAdmin,
	}

	pending, err := f.tokens.IssuePending(acc)
	require.NoError(t, err)
	require.Equal(t, jwtx.DefaultPendingTokenTTL, pending.ExpiresIn)

	claims, err := f.tokens.VerifyPending(pending.Token)
	require.NoError(t, err)
	require.Equal(t, acc.ID, claims.Subject)
	require.Empty(t, claims.Role)
	require.Empty(t, claims.Tenant)
	require.ErrorIs(t, claims.ValidateSession(), jwtx.ErrWrongTokenKind)

	session, err := f.tokens.IssueSession(acc)
	require.NoError(t, err)
	require.Equal(t, time.Hour, session.ExpiresIn)

	_, err = f.tokens.VerifyPending(session.Token)
	require.ErrorIs(t, err, ErrInvalidToken)

	full, err := f.verifier.Verify(session.Token)
	require.NoError(t, err)
	require.Equal(t, "hss_demo_user", full.Tenant)
	require.Equal(t, "demo_user", full.LoginID)
	require.Equal(t, "hss-test", full.Issuer)
}

func TestTokenServiceRejectsExpiredAndForeignTokens(t *testing.T) {
	f := newFixture(t)
	acc := domain.TenantAccount{ID: "01HZX0000000000000000000AB"}

	expired := &TokenService{
		Signer:     f.tokens.Signer,
		Verifier:   f.tokens.Verifier,
		Issuer:     "hss-test",
		PendingTTL: time.Minute,
		Now:        func() time.Time { return time.Now().Add(-time.Hour) },
	}
	tok, err := expired.IssuePending(acc)
	require.NoError(t, err)
	_, err = f.tokens.VerifyPending(tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	otherSigner, err := jwtx.NewSignerHS256([]byte("another-signing-secret-0123456789abcdef"))
	require.NoError(t, err)
	foreign := &TokenService{Signer: otherSigner, Issuer: "hss-test"}
	tok, err = foreign.IssuePending(acc)
	require.NoError(t, err)
	_, err = f.tokens.VerifyPending(tok.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
