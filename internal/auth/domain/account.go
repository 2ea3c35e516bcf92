package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleHospitalAdmin Role = "hospital_admin"
	RoleAdmin         Role = "admin"
	RoleSuperAdmin    Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleHospitalAdmin, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsPlatformAdmin reports whether the role may manage other accounts.
func (r Role) IsPlatformAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// TenantAccount is one registered hospital. It lives in the credential
// database; its staff, shift and alert data live in the tenant database
// named by TenantDBName.
type TenantAccount struct {
	ID                string // ULID
	HospitalName      string
	TenantDBName      string // derived from EmailID, never edited
	Province          string
	City              string
	ContactPersonName string
	Email             string // stored lowercase, unique
	EmailID           string // login identifier, unique
	PhoneNumber       string
	PasswordHash      string // argon2 encoded
	DeviceFingerprint string
	GPSCoordinates    string // "lat,lon" or empty
	LocationAddress   string
	Role              Role
	IsApproved        bool
	RejectedAt        *time.Time

	// One-time code state. The code itself is never stored, only its
	// fingerprint.
	TwoFactorCodeHash  *string
	TwoFactorExpiresAt *time.Time
	TwoFactorAttempts  int

	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status derives the approval state shown to administrators.
func (a *TenantAccount) Status() AccountStatus {
	switch {
	case a.IsApproved:
		return StatusApproved
	case a.RejectedAt != nil:
		return StatusRejected
	default:
		return StatusPending
	}
}

// HasPendingCode reports whether a one-time code is outstanding.
func (a *TenantAccount) HasPendingCode() bool {
	return a.TwoFactorCodeHash != nil && *a.TwoFactorCodeHash != ""
}

type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusApproved AccountStatus = "approved"
	StatusRejected AccountStatus = "rejected"
	StatusAll      AccountStatus = "all"
)

// ParseAccountStatus accepts the admin list filter; empty means all.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending, StatusApproved, StatusRejected:
		return AccountStatus(s), nil
	}
	return "", &ValidationError{Fields: map[string]string{
		"status": fmt.Sprintf("must be one of pending, approved, rejected, all (got %q)", s),
	}}
}
