package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Admin operations. The session role must be admin or super_admin.

// Account status filters accepted by ListAccounts.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusAll      = "all"
)

// ListAccounts lists tenant accounts filtered by status ("" means all).
func (s *Session) ListAccounts(ctx context.Context, status string) ([]Account, error) {
	path := "/auth/admin/users"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}

	var out AccountListResponse
	if err := s.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// ApproveAccount lets the account log in. Idempotent.
func (s *Session) ApproveAccount(ctx context.Context, id string) (*Account, error) {
	return s.approval(ctx, id, "approve")
}

// RejectAccount marks the account rejected. It cannot log in until approved.
func (s *Session) RejectAccount(ctx context.Context, id string) (*Account, error) {
	return s.approval(ctx, id, "reject")
}

// UnapproveAccount returns an approved account to pending.
func (s *Session) UnapproveAccount(ctx context.Context, id string) (*Account, error) {
	return s.approval(ctx, id, "unapprove")
}

func (s *Session) approval(ctx context.Context, id, action string) (*Account, error) {
	var out ApprovalResponse
	path := "/auth/admin/users/" + url.PathEscape(id) + "/" + action
	if err := s.do(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Account, nil
}
