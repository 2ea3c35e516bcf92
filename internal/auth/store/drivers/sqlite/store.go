package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/store"
	"github.com/hsshealth/hss/internal/auth/store/drivers/sqlite/gen"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Every :memory: connection is its own database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Accounts() store.Accounts { return &accountsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapUniqueViolation turns a sqlite UNIQUE failure into a *store.ConflictError
// naming the offending column. The driver reports it as
// "UNIQUE constraint failed: <table>.<column>".
func mapUniqueViolation(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) || se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return err
	}

	column := ""
	if _, rest, ok := strings.Cut(se.Error(), "UNIQUE constraint failed: "); ok {
		target, _, _ := strings.Cut(rest, " ")
		if _, col, ok := strings.Cut(target, "."); ok {
			column = col
		}
	}
	return &store.ConflictError{Column: column}
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time.UTC()
		return &val
	}
	return nil
}

func mapTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func mapAccount(row gen.TenantAccount) domain.TenantAccount {
	return domain.TenantAccount{
		ID:                 row.ID,
		HospitalName:       row.HospitalName,
		TenantDBName:       row.TenantDbName,
		Province:           row.Province,
		City:               row.City,
		ContactPersonName:  row.ContactPersonName,
		Email:              row.Email,
		EmailID:            row.EmailID,
		PhoneNumber:        row.PhoneNumber,
		PasswordHash:       row.PasswordHash,
		DeviceFingerprint:  row.DeviceFingerprint,
		GPSCoordinates:     row.GpsCoordinates,
		LocationAddress:    row.LocationAddress,
		Role:               domain.Role(row.Role),
		IsApproved:         row.IsApproved,
		RejectedAt:         mapNullTimePtr(row.RejectedAt),
		TwoFactorCodeHash:  mapNullStringPtr(row.TwoFactorCodeHash),
		TwoFactorExpiresAt: mapNullTimePtr(row.TwoFactorExpiresAt),
		TwoFactorAttempts:  int(row.TwoFactorAttempts),
		LastLogin:          mapNullTimePtr(row.LastLogin),
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

func mapAccounts(rows []gen.TenantAccount) []domain.TenantAccount {
	out := make([]domain.TenantAccount, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAccount(row))
	}
	return out
}
