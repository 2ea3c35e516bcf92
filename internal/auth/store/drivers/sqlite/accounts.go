package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/store"
	"github.com/hsshealth/hss/internal/auth/store/drivers/sqlite/gen"
)

type accountsRepo struct {
	q *gen.Queries
}

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.TenantAccount) error {
	err := r.q.CreateTenantAccount(ctx, gen.CreateTenantAccountParams{
		ID:                a.ID,
		HospitalName:      a.HospitalName,
		TenantDbName:      a.TenantDBName,
		Province:          a.Province,
		City:              a.City,
		ContactPersonName: a.ContactPersonName,
		Email:             a.Email,
		EmailID:           a.EmailID,
		PhoneNumber:       a.PhoneNumber,
		PasswordHash:      a.PasswordHash,
		DeviceFingerprint: a.DeviceFingerprint,
		GpsCoordinates:    a.GPSCoordinates,
		LocationAddress:   a.LocationAddress,
		Role:              string(a.Role),
		IsApproved:        a.IsApproved,
	})
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.TenantAccount, error) {
	row, err := r.q.GetTenantAccountByID(ctx, id)
	if err != nil {
		return domain.TenantAccount{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByLoginID(ctx context.Context, loginID string) (domain.TenantAccount, error) {
	row, err := r.q.GetTenantAccountByEmailID(ctx, loginID)
	if err != nil {
		return domain.TenantAccount{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.TenantAccount, error) {
	row, err := r.q.GetTenantAccountByEmail(ctx, email)
	if err != nil {
		return domain.TenantAccount{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) GetAccountByTenantDBName(ctx context.Context, name string) (domain.TenantAccount, error) {
	row, err := r.q.GetTenantAccountByTenantDBName(ctx, name)
	if err != nil {
		return domain.TenantAccount{}, mapNotFound(err)
	}
	return mapAccount(row), nil
}

func (r *accountsRepo) ListAccounts(ctx context.Context, f store.AccountFilter) ([]domain.TenantAccount, error) {
	var (
		rows []gen.TenantAccount
		err  error
	)
	switch f.Status {
	case domain.StatusPending:
		rows, err = r.q.ListPendingTenantAccounts(ctx)
	case domain.StatusApproved:
		rows, err = r.q.ListApprovedTenantAccounts(ctx)
	case domain.StatusRejected:
		rows, err = r.q.ListRejectedTenantAccounts(ctx)
	default:
		rows, err = r.q.ListTenantAccounts(ctx)
	}
	if err != nil {
		return nil, err
	}
	return mapAccounts(rows), nil
}

func (r *accountsRepo) SetApproval(ctx context.Context, id string, approved bool) error {
	var (
		n   int64
		err error
	)
	if approved {
		n, err = r.q.ApproveTenantAccount(ctx, id)
	} else {
		n, err = r.q.UnapproveTenantAccount(ctx, id)
	}
	return affectedOrNotFound(n, err)
}

func (r *accountsRepo) MarkRejected(ctx context.Context, id string, at time.Time) error {
	n, err := r.q.RejectTenantAccount(ctx, gen.RejectTenantAccountParams{
		RejectedAt: mapTime(at),
		ID:         id,
	})
	return affectedOrNotFound(n, err)
}

func (r *accountsRepo) SetTwoFactorCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error {
	n, err := r.q.SetTwoFactorCode(ctx, gen.SetTwoFactorCodeParams{
		TwoFactorCodeHash:  sql.NullString{String: codeHash, Valid: true},
		TwoFactorExpiresAt: mapTime(expiresAt),
		ID:                 id,
	})
	return affectedOrNotFound(n, err)
}

func (r *accountsRepo) ClearTwoFactorCode(ctx context.Context, id string) error {
	return r.q.ClearTwoFactorCode(ctx, id)
}

func (r *accountsRepo) ConsumeTwoFactorCode(ctx context.Context, id, codeHash string, at time.Time) (bool, error) {
	n, err := r.q.ConsumeTwoFactorCode(ctx, gen.ConsumeTwoFactorCodeParams{
		LastLogin:         mapTime(at),
		ID:                id,
		TwoFactorCodeHash: sql.NullString{String: codeHash, Valid: true},
	})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *accountsRepo) IncrementTwoFactorAttempts(ctx context.Context, id string) (int, error) {
	attempts, err := r.q.IncrementTwoFactorAttempts(ctx, id)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return int(attempts), nil
}

func (r *accountsRepo) DeleteExpiredTwoFactorCodes(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredTwoFactorCodes(ctx, mapTime(now))
}

func (r *accountsRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	return r.q.CountTenantAccountsByRole(ctx, string(role))
}

func affectedOrNotFound(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
