package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/store"
	"github.com/hsshealth/hss/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newAccount(loginID string) domain.TenantAccount {
	return domain.TenantAccount{
		ID:                idx.New().String(),
		HospitalName:      "Demo General",
		TenantDBName:      "hss_" + loginID,
		Province:          "Gauteng",
		City:              "Johannesburg",
		ContactPersonName: "Jane Doe",
		Email:             loginID + "@demo.example",
		EmailID:           loginID,
		PhoneNumber:       "+27115550100",
		PasswordHash:      "argon2id$dummy",
		DeviceFingerprint: "fp",
		Role:              domain.RoleHospitalAdmin,
	}
}

func TestAccountsCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	repo := s.Accounts()

	acc := newAccount("demo_user")
	require.NoError(t, repo.CreateAccount(ctx, acc))

	got, err := repo.GetAccountByLoginID(ctx, "demo_user")
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)
	require.Equal(t, "hss_demo_user", got.TenantDBName)
	require.Equal(t, domain.RoleHospitalAdmin, got.Role)
	require.False(t, got.IsApproved)
	require.Equal(t, domain.StatusPending, got.Status())
	require.False(t, got.HasPendingCode())
	require.False(t, got.CreatedAt.IsZero())

	byEmail, err := repo.GetAccountByEmail(ctx, "demo_user@demo.example")
	require.NoError(t, err)
	require.Equal(t, acc.ID, byEmail.ID)

	byTenant, err := repo.GetAccountByTenantDBName(ctx, "hss_demo_user")
	require.NoError(t, err)
	require.Equal(t, acc.ID, byTenant.ID)

	_, err = repo.GetAccountByLoginID(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAccountsUniqueViolationNamesColumn(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Accounts()

	require.NoError(t, repo.CreateAccount(ctx, newAccount("demo_user")))

	dup := newAccount("other_user")
	dup.Email = "demo_user@demo.example"
	err := repo.CreateAccount(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	var ce *store.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "email", ce.Column)

	dup = newAccount("demo_user")
	err = repo.CreateAccount(ctx, dup)
	require.ErrorAs(t, err, &ce)
	require.Contains(t, []string{"email_id", "tenant_db_name", "email"}, ce.Column)
}

func TestAccountsApprovalLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Accounts()

	acc := newAccount("demo_user")
	require.NoError(t, repo.CreateAccount(ctx, acc))

	require.NoError(t, repo.MarkRejected(ctx, acc.ID, time.Now()))
	got, err := repo.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusRejected, got.Status())

	rejected, err := repo.ListAccounts(ctx, store.AccountFilter{Status: domain.StatusRejected})
	require.NoError(t, err)
	require.Len(t, rejected, 1)

	// Approving twice is fine and clears the rejection.
	require.NoError(t, repo.SetApproval(ctx, acc.ID, true))
	require.NoError(t, repo.SetApproval(ctx, acc.ID, true))
	got, err = repo.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.True(t, got.IsApproved)
	require.Nil(t, got.RejectedAt)

	pending, err := repo.ListAccounts(ctx, store.AccountFilter{Status: domain.StatusPending})
	require.NoError(t, err)
	require.Empty(t, pending)

	all, err := repo.ListAccounts(ctx, store.AccountFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.ErrorIs(t, repo.SetApproval(ctx, "missing", true), store.ErrNotFound)
}

func TestAccountsTwoFactorCode(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Accounts()

	acc := newAccount("demo_user")
	require.NoError(t, repo.CreateAccount(ctx, acc))

	expires := time.Now().Add(10 * time.Minute)
	require.NoError(t, repo.SetTwoFactorCode(ctx, acc.ID, "hash-1", expires))

	n, err := repo.IncrementTwoFactorAttempts(ctx, acc.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// A new code overwrites the old one and resets attempts.
	require.NoError(t, repo.SetTwoFactorCode(ctx, acc.ID, "hash-2", expires))
	got, err := repo.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.True(t, got.HasPendingCode())
	require.Equal(t, "hash-2", *got.TwoFactorCodeHash)
	require.Equal(t, 0, got.TwoFactorAttempts)
	require.WithinDuration(t, expires, *got.TwoFactorExpiresAt, time.Second)

	ok, err := repo.ConsumeTwoFactorCode(ctx, acc.ID, "hash-1", time.Now())
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = repo.ConsumeTwoFactorCode(ctx, acc.ID, "hash-2", time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	// Second consumer loses.
	ok, err = repo.ConsumeTwoFactorCode(ctx, acc.ID, "hash-2", time.Now())
	require.NoError(t, err)
	require.False(t, ok)

	got, err = repo.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.False(t, got.HasPendingCode())
	require.NotNil(t, got.LastLogin)
}

func TestAccountsDeleteExpiredTwoFactorCodes(t *testing.T) {
	ctx := context.Background()
	repo := newTestStore(t).Accounts()

	stale := newAccount("stale_user")
	fresh := newAccount("fresh_user")
	require.NoError(t, repo.CreateAccount(ctx, stale))
	require.NoError(t, repo.CreateAccount(ctx, fresh))

	now := time.Now()
	require.NoError(t, repo.SetTwoFactorCode(ctx, stale.ID, "a", now.Add(-time.Minute)))
	require.NoError(t, repo.SetTwoFactorCode(ctx, fresh.ID, "b", now.Add(time.Minute)))

	n, err := repo.DeleteExpiredTwoFactorCodes(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := repo.GetAccountByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.True(t, got.HasPendingCode())
}

func TestAccountsCountByRoleAndTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	admin := newAccount("root_admin")
	admin.Role = domain.RoleSuperAdmin
	admin.IsApproved = true

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Accounts().CreateAccount(ctx, admin)
	})
	require.NoError(t, err)

	n, err := s.Accounts().CountByRole(ctx, domain.RoleSuperAdmin)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// A failing transaction leaves nothing behind.
	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().CreateAccount(ctx, newAccount("ghost")); err != nil {
			return err
		}
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Accounts().GetAccountByLoginID(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}
