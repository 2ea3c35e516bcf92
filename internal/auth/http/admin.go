package http

import (
	"context"
	"net/http"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/service"
	"github.com/hsshealth/hss/pkg/authsdk"
	"github.com/hsshealth/hss/pkg/httpx"
	"github.com/hsshealth/hss/pkg/slogx"
)

// AdminHandler serves the approval gate for platform administrators.
type AdminHandler struct {
	Accounts *service.AccountService
	Errors   ErrorWriter
}

// HandleList handles GET /auth/admin/users
//
//	@Summary		List tenant accounts
//	@Description	Lists registered accounts, newest first. Requires the admin or super_admin role.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			status	query		string						false	"pending, approved, rejected or all"	Enums(pending, approved, rejected, all)
//	@Success		200		{object}	authsdk.AccountListResponse	"Accounts"
//	@Failure		400		{object}	authsdk.ErrorResponse		"Unknown status filter"
//	@Failure		401		{object}	authsdk.ErrorResponse		"Invalid or missing session token"
//	@Failure		403		{object}	authsdk.ErrorResponse		"Insufficient role"
//	@Router			/auth/admin/users [get].
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseAccountStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	accs, err := h.Accounts.List(r.Context(), status)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.AccountListResponse{Accounts: toAccounts(accs)})
}

// HandleApprove handles PATCH /auth/admin/users/{id}/approve
//
//	@Summary		Approve an account
//	@Description	Lets the account log in and emails the contact. Idempotent.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Account id"
//	@Success		200	{object}	authsdk.ApprovalResponse	"Updated account"
//	@Failure		403	{object}	authsdk.ErrorResponse		"Insufficient role"
//	@Failure		404	{object}	authsdk.ErrorResponse		"Account not found"
//	@Router			/auth/admin/users/{id}/approve [patch].
func (h *AdminHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "account approved", func(ctx context.Context, id string) (domain.TenantAccount, error) {
		return h.Accounts.SetApproval(ctx, id, true)
	})
}

// HandleUnapprove handles PATCH /auth/admin/users/{id}/unapprove
//
//	@Summary		Return an account to pending
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Account id"
//	@Success		200	{object}	authsdk.ApprovalResponse	"Updated account"
//	@Failure		403	{object}	authsdk.ErrorResponse		"Insufficient role"
//	@Failure		404	{object}	authsdk.ErrorResponse		"Account not found"
//	@Router			/auth/admin/users/{id}/unapprove [patch].
func (h *AdminHandler) HandleUnapprove(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "account returned to pending", func(ctx context.Context, id string) (domain.TenantAccount, error) {
		return h.Accounts.SetApproval(ctx, id, false)
	})
}

// HandleReject handles PATCH /auth/admin/users/{id}/reject
//
//	@Summary		Reject an account
//	@Description	Marks the account rejected. The record is kept and can still be approved later.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"Account id"
//	@Success		200	{object}	authsdk.ApprovalResponse	"Updated account"
//	@Failure		403	{object}	authsdk.ErrorResponse		"Insufficient role"
//	@Failure		404	{object}	authsdk.ErrorResponse		"Account not found"
//	@Router			/auth/admin/users/{id}/reject [patch].
func (h *AdminHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "account rejected", h.Accounts.Reject)
}

func (h *AdminHandler) apply(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fn func(context.Context, string) (domain.TenantAccount, error),
) {
	ctx := r.Context()
	id := r.PathValue("id")

	acc, err := fn(ctx, id)
	if err != nil {
		h.Errors.Write(w, r, err)
		return
	}

	slogx.FromContext(ctx).Info("admin action",
		"action", message,
		"target_account_id", id,
	)
	httpx.WriteJSON(w, http.StatusOK, authsdk.ApprovalResponse{
		Message: message,
		Account: toAccount(acc),
	})
}
