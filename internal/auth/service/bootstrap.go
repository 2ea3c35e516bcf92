package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/store"
	"github.com/hsshealth/hss/internal/auth/tenant"
	"github.com/hsshealth/hss/pkg/cryptox"
	"github.com/hsshealth/hss/pkg/idx"
	"github.com/hsshealth/hss/pkg/slogx"
)

var ErrBootstrapIncomplete = errors.New("bootstrap admin requires login id, email and password")

// BootstrapAdmin is the super admin seeded on first start.
type BootstrapAdmin struct {
	LoginID  string
	Email    string
	Password string
}

func (b BootstrapAdmin) Empty() bool {
	return b.LoginID == "" && b.Email == "" && b.Password == ""
}

type BootstrapService struct {
	Store store.Store
}

// EnsureSuperAdmin creates an approved super admin unless one already
// exists. It reports whether an account was created.
func (s *BootstrapService) EnsureSuperAdmin(ctx context.Context, admin BootstrapAdmin) (bool, error) {
	l := slogx.FromContext(ctx)

	if admin.Empty() {
		return false, nil
	}
	if admin.LoginID == "" || admin.Email == "" || admin.Password == "" {
		return false, ErrBootstrapIncomplete
	}

	passHash, err := cryptox.HashPassword(admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	acc := domain.TenantAccount{
		ID:                idx.New().String(),
		HospitalName:      "HSS Platform",
		TenantDBName:      tenant.DatabaseNameFor(admin.LoginID),
		ContactPersonName: admin.LoginID,
		Email:             strings.ToLower(strings.TrimSpace(admin.Email)),
		EmailID:           strings.TrimSpace(admin.LoginID),
		PasswordHash:      passHash,
		Role:              domain.RoleSuperAdmin,
		IsApproved:        true,
	}

	created := false
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Accounts().CountByRole(ctx, domain.RoleSuperAdmin)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := tx.Accounts().CreateAccount(ctx, acc); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed super admin: %w", err)
	}

	if created {
		l.Info("seeded super admin", slog.String("account_id", acc.ID))
	} else {
		l.Debug("super admin already present, skipping bootstrap")
	}
	return created, nil
}
