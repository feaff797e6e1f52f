package http

import (
	"errors"
	"net/http"

	"github.com/assignhub/assignhub/internal/accounts/service"
	"github.com/assignhub/assignhub/pkg/accountsdk"
	"github.com/assignhub/assignhub/pkg/httpx"
	"github.com/assignhub/assignhub/pkg/slogx"
)

type AdminHandler struct {
	AdminService *service.AdminService
}

// HandleList returns every account.
//
//	@Summary		List accounts
//	@Description	Returns every account, newest first. Admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.ListUsersResponse	"All accounts"
//	@Failure		403	{object}	accountsdk.ErrorResponse		"Caller is not an admin"
//	@Router			/v1/users [get].
func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.AdminService.ListUsers(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list users", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.ListUsersResponse{Users: userInfos(users)})
}

// HandleListPending returns verified accounts awaiting approval.
//
//	@Summary		List pending approvals
//	@Description	Returns accounts whose email is verified but which have not been approved yet, oldest first. Admin only.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.ListUsersResponse	"Accounts awaiting approval"
//	@Failure		403	{object}	accountsdk.ErrorResponse		"Caller is not an admin"
//	@Router			/v1/users/pending [get].
func (h *AdminHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	users, err := h.AdminService.ListPendingUsers(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list pending users", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.ListUsersResponse{Users: userInfos(users)})
}

// HandleApprove approves an account.
//
//	@Summary		Approve an account
//	@Description	Marks the account approved so it can sign in. Approving an already-approved account is a no-op.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"User ID"
//	@Success		200	{object}	accountsdk.UserInfo			"The approved account"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Caller is not an admin"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"No such account"
//	@Router			/v1/users/{id}/approve [post].
func (h *AdminHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	u, err := h.AdminService.ApproveUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAdminError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfo(u))
}

// HandleUnlock unlocks an account.
//
//	@Summary		Unlock an account
//	@Description	Clears the lock placed after repeated failed logins and resets the failure counter.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"User ID"
//	@Success		200	{object}	accountsdk.UserInfo			"The unlocked account"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Caller is not an admin"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"No such account"
//	@Router			/v1/users/{id}/unlock [post].
func (h *AdminHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	u, err := h.AdminService.UnlockUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAdminError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfo(u))
}

// HandleUpdateRole changes an account's role.
//
//	@Summary		Change an account's role
//	@Description	Sets the account's role and revokes its sessions so stale role claims cannot be replayed. Admins cannot change their own role.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"User ID"
//	@Param			request	body		accountsdk.UpdateRoleRequest	true	"New role"
//	@Success		200		{object}	accountsdk.UserInfo				"The updated account"
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse	"Invalid request body or unknown role"
//	@Failure		403		{object}	accountsdk.ErrorResponse		"Caller is not an admin, or tried to change their own role"
//	@Failure		404		{object}	accountsdk.ErrorResponse		"No such account"
//	@Router			/v1/users/{id}/role [patch].
func (h *AdminHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(r)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req accountsdk.UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	u, err := h.AdminService.UpdateUserRole(r.Context(), actorID, r.PathValue("id"), req.Role)
	if err != nil {
		writeAdminError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfo(u))
}

// HandleDelete removes an account.
//
//	@Summary		Delete an account
//	@Description	Permanently removes the account and everything attached to it. Admins cannot delete their own account this way; use DELETE /v1/users/me.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User ID"
//	@Success		204	"Account deleted"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Caller is not an admin, or tried to delete themselves"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"No such account"
//	@Router			/v1/users/{id} [delete].
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(r)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AdminService.DeleteUser(r.Context(), actorID, r.PathValue("id")); err != nil {
		writeAdminError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleStats summarizes the account population.
//
//	@Summary		Account statistics
//	@Description	Returns totals for the admin dashboard: all accounts, pending approvals, locked accounts, and unverified emails.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.StatsResponse	"Account population summary"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Caller is not an admin"
//	@Router			/v1/users/stats/overview [get].
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.AdminService.Stats(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to count stats", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.StatsResponse{
		TotalUsers:       stats.TotalUsers,
		PendingApprovals: stats.PendingApprovals,
		LockedUsers:      stats.LockedUsers,
		UnverifiedEmails: stats.UnverifiedEmails,
	})
}

// writeAdminError maps admin operation errors to API responses.
func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		accountsdk.ErrNotFound.WriteError(w)
	case errors.Is(err, service.ErrUnknownRole):
		accountsdk.NewAPIError(http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest,
			"unknown role").WriteError(w)
	case errors.Is(err, service.ErrSelfDemotion):
		accountsdk.NewAPIError(http.StatusForbidden, accountsdk.ErrorCodeInsufficientRole,
			"administrators cannot change their own role").WriteError(w)
	case errors.Is(err, service.ErrSelfDeletion):
		accountsdk.NewAPIError(http.StatusForbidden, accountsdk.ErrorCodeInsufficientRole,
			"administrators cannot delete their own account this way").WriteError(w)
	default:
		accountsdk.ErrServerError.WriteError(w)
	}
}
