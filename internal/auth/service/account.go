package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/store"
	"github.com/hsshealth/hss/internal/auth/tenant"
	"github.com/hsshealth/hss/internal/auth/upstream"
	"github.com/hsshealth/hss/pkg/cryptox"
	"github.com/hsshealth/hss/pkg/idx"
	"github.com/hsshealth/hss/pkg/slogx"
)

// geocodeBudget bounds the best-effort address lookup during registration.
const geocodeBudget = 3 * time.Second

// AccountService owns the credential store: registration, lookup and the
// administrator approval gate.
type AccountService struct {
	Store   store.Store
	Captcha upstream.CaptchaVerifier
	Mailer  upstream.Mailer

	// Geocoder fills a missing address from GPS coordinates. Optional.
	Geocoder upstream.Geocoder

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Register validates in, checks the captcha and uniqueness, then stores a
// new unapproved hospital_admin account. Validation runs before anything
// leaves the process.
func (s *AccountService) Register(ctx context.Context, in domain.RegisterInput) (domain.TenantAccount, error) {
	l := slogx.FromContext(ctx)

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return domain.TenantAccount{}, err
	}

	tenantDB := tenant.DatabaseNameFor(in.EmailID)
	if !tenant.ValidName(tenantDB) {
		return domain.TenantAccount{}, &domain.ValidationError{Fields: map[string]string{
			"emailId": "cannot be mapped to a tenant namespace",
		}}
	}

	if err := s.Captcha.Verify(ctx, in.RecaptchaToken, in.RemoteIP); err != nil {
		return domain.TenantAccount{}, err
	}

	if err := s.checkAvailable(ctx, in.EmailID, in.Email, tenantDB); err != nil {
		return domain.TenantAccount{}, err
	}

	if in.LocationAddress == "" && in.GPSCoordinates != "" {
		in.LocationAddress = s.lookupAddress(ctx, in.GPSCoordinates)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.TenantAccount{}, fmt.Errorf("hash password: %w", err)
	}

	acc := domain.TenantAccount{
		ID:                idx.New().String(),
		HospitalName:      in.HospitalName,
		TenantDBName:      tenantDB,
		Province:          in.Province,
		City:              in.City,
		ContactPersonName: in.ContactPersonName,
		Email:             in.Email,
		EmailID:           in.EmailID,
		PhoneNumber:       in.PhoneNumber,
		PasswordHash:      hash,
		DeviceFingerprint: in.DeviceFingerprint,
		GPSCoordinates:    in.GPSCoordinates,
		LocationAddress:   in.LocationAddress,
		Role:              domain.RoleHospitalAdmin,
		IsApproved:        false,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, acc); err != nil {
		// Lost a race with a concurrent registration.
		var ce *store.ConflictError
		if errors.As(err, &ce) {
			return domain.TenantAccount{}, &ConflictError{Field: conflictField(ce.Column)}
		}
		return domain.TenantAccount{}, fmt.Errorf("create account: %w", err)
	}

	created, err := s.Store.Accounts().GetAccountByID(ctx, acc.ID)
	if err != nil {
		return domain.TenantAccount{}, fmt.Errorf("reload account: %w", err)
	}

	l.Info("account registered",
		slog.String("account_id", created.ID),
		slog.String("tenant", created.TenantDBName),
	)

	if err := s.Mailer.Send(ctx, upstream.PendingApprovalMessage(created.Email, created.HospitalName)); err != nil {
		l.Warn("pending approval mail failed", slog.String("account_id", created.ID), slog.Any("error", err))
	}

	return created, nil
}

func (s *AccountService) checkAvailable(ctx context.Context, loginID, email, tenantDB string) error {
	checks := []struct {
		field  string
		lookup func(context.Context, string) (domain.TenantAccount, error)
		value  string
	}{
		{"emailId", s.Store.Accounts().GetAccountByLoginID, loginID},
		{"email", s.Store.Accounts().GetAccountByEmail, email},
		// Two login ids that normalise to the same namespace would share a
		// tenant database.
		{"emailId", s.Store.Accounts().GetAccountByTenantDBName, tenantDB},
	}
	for _, c := range checks {
		_, err := c.lookup(ctx, c.value)
		switch {
		case err == nil:
			return &ConflictError{Field: c.field}
		case !errors.Is(err, store.ErrNotFound):
			return err
		}
	}
	return nil
}

func conflictField(column string) string {
	if column == "email" {
		return "email"
	}
	return "emailId"
}

func (s *AccountService) lookupAddress(ctx context.Context, coords string) string {
	if s.Geocoder == nil {
		return ""
	}
	lat, lon, err := domain.ParseCoordinates(coords)
	if err != nil {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, geocodeBudget)
	defer cancel()

	addr, err := s.Geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		slogx.FromContext(ctx).Warn("reverse geocoding failed", slog.Any("error", err))
		return ""
	}
	return addr
}

// FindByLoginID returns the account or ErrNotFound.
func (s *AccountService) FindByLoginID(ctx context.Context, loginID string) (domain.TenantAccount, error) {
	acc, err := s.Store.Accounts().GetAccountByLoginID(ctx, loginID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TenantAccount{}, ErrNotFound
	}
	return acc, err
}

// Get returns the account by id or ErrNotFound.
func (s *AccountService) Get(ctx context.Context, id string) (domain.TenantAccount, error) {
	acc, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.TenantAccount{}, ErrNotFound
	}
	return acc, err
}

// VerifyPassword compares password against the stored argon2id hash in
// constant time.
func VerifyPassword(acc domain.TenantAccount, password string) bool {
	return cryptox.VerifyPassword(password, acc.PasswordHash) == nil
}

// List returns accounts in the given approval state, newest first.
func (s *AccountService) List(ctx context.Context, status domain.AccountStatus) ([]domain.TenantAccount, error) {
	return s.Store.Accounts().ListAccounts(ctx, store.AccountFilter{Status: status})
}

// SetApproval flips the approval flag. It is idempotent; an account that
// becomes approved is notified by mail (best effort).
func (s *AccountService) SetApproval(ctx context.Context, id string, approved bool) (domain.TenantAccount, error) {
	before, err := s.Get(ctx, id)
	if err != nil {
		return domain.TenantAccount{}, err
	}

	if err := s.Store.Accounts().SetApproval(ctx, id, approved); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TenantAccount{}, ErrNotFound
		}
		return domain.TenantAccount{}, err
	}

	after, err := s.Get(ctx, id)
	if err != nil {
		return domain.TenantAccount{}, err
	}

	l := slogx.FromContext(ctx)
	l.Info("account approval changed",
		slog.String("target_account_id", id),
		slog.Bool("approved", approved),
	)

	if approved && !before.IsApproved {
		if err := s.Mailer.Send(ctx, upstream.ApprovedMessage(after.Email, after.HospitalName)); err != nil {
			l.Warn("approval mail failed", slog.String("target_account_id", id), slog.Any("error", err))
		}
	}
	return after, nil
}

// Reject unapproves the account and marks it rejected. The record is kept.
func (s *AccountService) Reject(ctx context.Context, id string) (domain.TenantAccount, error) {
	if err := s.Store.Accounts().MarkRejected(ctx, id, s.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TenantAccount{}, ErrNotFound
		}
		return domain.TenantAccount{}, err
	}

	slogx.FromContext(ctx).Info("account rejected", slog.String("target_account_id", id))
	return s.Get(ctx, id)
}
