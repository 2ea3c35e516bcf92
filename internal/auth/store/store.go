package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// ConflictError is returned when an insert violates a unique column. It
// matches ErrAlreadyExists with errors.Is.
type ConflictError struct {
	Column string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadyExists, e.Column)
}

func (e *ConflictError) Is(target error) bool { return target == ErrAlreadyExists }

// Store is the root data access interface for the credential database.
// Concrete drivers implement this. Tenant data is not reached through it;
// see the tenant package. Sub-repositories are exposed as methods so that
// nobody accidentally starts a transaction inside a transaction.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// AccountFilter narrows ListAccounts. The zero value lists everything.
type AccountFilter struct {
	Status domain.AccountStatus
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by the app via ULID).
	// A unique violation is reported as *ConflictError naming the column.
	CreateAccount(ctx context.Context, a domain.TenantAccount) error

	GetAccountByID(ctx context.Context, id string) (domain.TenantAccount, error)

	// GetAccountByLoginID looks up the unique emailId.
	GetAccountByLoginID(ctx context.Context, loginID string) (domain.TenantAccount, error)

	// GetAccountByEmail expects the email already lowercased.
	GetAccountByEmail(ctx context.Context, email string) (domain.TenantAccount, error)

	GetAccountByTenantDBName(ctx context.Context, name string) (domain.TenantAccount, error)

	// ListAccounts returns accounts ordered by creation date (newest first).
	ListAccounts(ctx context.Context, f AccountFilter) ([]domain.TenantAccount, error)

	// SetApproval sets is_approved. Approving clears rejected_at.
	SetApproval(ctx context.Context, id string, approved bool) error

	// MarkRejected unapproves the account and stamps rejected_at.
	MarkRejected(ctx context.Context, id string, at time.Time) error

	// SetTwoFactorCode overwrites the outstanding code fingerprint and expiry
	// and resets the attempt counter.
	SetTwoFactorCode(ctx context.Context, id, codeHash string, expiresAt time.Time) error

	// ClearTwoFactorCode drops any outstanding code.
	ClearTwoFactorCode(ctx context.Context, id string) error

	// ConsumeTwoFactorCode clears the code only if it still equals codeHash
	// and stamps last_login. It reports false when another request got there
	// first.
	ConsumeTwoFactorCode(ctx context.Context, id, codeHash string, at time.Time) (bool, error)

	// IncrementTwoFactorAttempts bumps the failed attempt counter and returns
	// the new value.
	IncrementTwoFactorAttempts(ctx context.Context, id string) (int, error)

	// DeleteExpiredTwoFactorCodes clears every code that expired before now
	// (housekeeping) and returns how many were cleared.
	DeleteExpiredTwoFactorCodes(ctx context.Context, now time.Time) (int64, error)

	// CountByRole returns the number of accounts holding role.
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
