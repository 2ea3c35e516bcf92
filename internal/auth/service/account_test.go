package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/upstream"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesPendingAccount(t *testing.T) {
	f := newFixture(t)

	in := validRegistration("demo_user")
	in.Email = "  Demo@X.com "
	acc, err := f.accounts.Register(context.Background(), in)
	require.NoError(t, err)

	require.NotEmpty(t, acc.ID)
	require.Equal(t, "hss_demo_user", acc.TenantDBName)
	require.Equal(t, "demo@x.com", acc.Email)
	require.Equal(t, domain.RoleHospitalAdmin, acc.Role)
	require.False(t, acc.IsApproved)
	require.Equal(t, domain.StatusPending, acc.Status())
	require.NotEqual(t, in.Password, acc.PasswordHash)
	require.True(t, VerifyPassword(acc, "hss123demo"))
	require.False(t, VerifyPassword(acc, "hss123demO"))
	require.False(t, acc.CreatedAt.IsZero())

	require.Equal(t, 1, f.captcha.Calls())
	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, upstream.KindPendingApproval, sent[0].Kind)
	require.Equal(t, "demo@x.com", sent[0].To)
}

func TestRegisterValidatesBeforeCaptcha(t *testing.T) {
	f := newFixture(t)

	in := validRegistration("demo_user")
	in.Password = "short"
	in.PhoneNumber = "not-a-phone"

	_, err := f.accounts.Register(context.Background(), in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Fields, "password")
	require.Contains(t, ve.Fields, "phoneNumber")
	require.Zero(t, f.captcha.Calls())
	require.Empty(t, f.mailer.Sent())
}

func TestRegisterCaptchaRejected(t *testing.T) {
	f := newFixture(t)
	f.captcha.err = upstream.ErrCaptchaRejected

	_, err := f.accounts.Register(context.Background(), validRegistration("demo_user"))
	require.ErrorIs(t, err, upstream.ErrCaptchaRejected)

	_, err = f.accounts.FindByLoginID(context.Background(), "demo_user")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.Register(ctx, validRegistration("demo_user"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		in    func() domain.RegisterInput
		field string
	}{
		{
			name:  "same login id",
			in:    func() domain.RegisterInput { in := validRegistration("demo_user"); in.Email = "other@demo.example"; return in },
			field: "emailId",
		},
		{
			name:  "same email in another case",
			in:    func() domain.RegisterInput { in := validRegistration("other_user"); in.Email = "DEMO_USER@demo.example"; return in },
			field: "email",
		},
		{
			name:  "login id mapping to the same namespace",
			in:    func() domain.RegisterInput { in := validRegistration("Demo.User"); in.Email = "dot@demo.example"; return in },
			field: "emailId",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.accounts.Register(ctx, tt.in())
			require.ErrorIs(t, err, ErrConflict)

			var ce *ConflictError
			require.ErrorAs(t, err, &ce)
			require.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestRegisterFillsAddressFromCoordinates(t *testing.T) {
	f := newFixture(t)
	f.accounts.Geocoder = &fakeGeocoder{addr: "Chris Hani Baragwanath Hospital, Soweto"}

	in := validRegistration("geo_user")
	in.GPSCoordinates = "-26.2614,27.9424"
	acc, err := f.accounts.Register(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, "Chris Hani Baragwanath Hospital, Soweto", acc.LocationAddress)

	// A failing geocoder never blocks registration.
	f.accounts.Geocoder = &fakeGeocoder{err: upstream.ErrUnavailable}
	in = validRegistration("geo_user2")
	in.GPSCoordinates = "-26.2614,27.9424"
	acc, err = f.accounts.Register(context.Background(), in)
	require.NoError(t, err)
	require.Empty(t, acc.LocationAddress)
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")

	acc, err := f.accounts.Register(context.Background(), validRegistration("demo_user"))
	require.NoError(t, err)
	require.Equal(t, "hss_demo_user", acc.TenantDBName)
}

func TestApprovalLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	acc, err := f.accounts.Register(ctx, validRegistration("demo_user"))
	require.NoError(t, err)

	pending, err := f.accounts.List(ctx, domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	rejected, err := f.accounts.Reject(ctx, acc.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, rejected.Status())

	approved, err := f.accounts.SetApproval(ctx, acc.ID, true)
	require.NoError(t, err)
	require.True(t, approved.IsApproved)
	require.Nil(t, approved.RejectedAt)

	// Approving twice is a no-op and mails only once.
	_, err = f.accounts.SetApproval(ctx, acc.ID, true)
	require.NoError(t, err)

	var approvals int
	for _, m := range f.mailer.Sent() {
		if m.Kind == upstream.KindApproved {
			approvals++
		}
	}
	require.Equal(t, 1, approvals)

	unapproved, err := f.accounts.SetApproval(ctx, acc.ID, false)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, unapproved.Status())

	_, err = f.accounts.SetApproval(ctx, "missing", true)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = f.accounts.Reject(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
