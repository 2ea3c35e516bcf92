package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("account_not_found")
	ErrConflict           = errors.New("already_exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrNotApproved        = errors.New("account_not_approved")
	ErrForbidden          = errors.New("forbidden")
	ErrNoCode             = errors.New("no_code")
	ErrCodeExpired        = errors.New("code_expired")
	ErrInvalidCode        = errors.New("invalid_code")
	ErrMissingTenant      = errors.New("missing_tenant_claim")
)

// ConflictError names the request field that collided with an existing
// account. It matches ErrConflict with errors.Is.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConflict, e.Field)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
