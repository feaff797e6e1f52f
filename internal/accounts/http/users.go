package http

import (
	"net/http"

	"github.com/assignhub/assignhub/internal/accounts/service"
	"github.com/assignhub/assignhub/pkg/accountsdk"
	"github.com/assignhub/assignhub/pkg/httpx"
	"github.com/assignhub/assignhub/pkg/slogx"
)

type UsersHandler struct {
	AccountService *service.AccountService
	UserService    *service.UserService
}

// HandleChangePassword rotates the caller's password.
//
//	@Summary		Change password
//	@Description	Rotates the caller's password after verifying the current one. Every session the caller holds is revoked, including the one making this request.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	accountsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204		"Password changed, all sessions revoked"
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse	"Invalid request body"
//	@Failure		401		{object}	accountsdk.ErrorResponse			"Wrong current password or invalid credential"
//	@Router			/v1/users/change-password [post].
func (h *UsersHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req accountsdk.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	err := h.AccountService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateName changes the caller's display name.
//
//	@Summary		Update display name
//	@Description	Changes the caller's display name.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.UpdateNameRequest	true	"New display name"
//	@Success		200		{object}	accountsdk.UserInfo				"The updated account"
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse	"Invalid request body"
//	@Failure		401		{object}	accountsdk.ErrorResponse		"Invalid or missing session credential"
//	@Router			/v1/users/name [patch].
func (h *UsersHandler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req accountsdk.UpdateNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	u, err := h.UserService.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfo(u))
}

// HandleDeleteMe removes the caller's own account.
//
//	@Summary		Delete own account
//	@Description	Permanently removes the caller's account. Sessions, verification tokens, and pending codes die with it.
//	@Tags			Users
//	@Security		BearerAuth
//	@Success		204	"Account deleted"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing session credential"
//	@Router			/v1/users/me [delete].
func (h *UsersHandler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := callerID(r)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AccountService.DeleteAccount(ctx, userID); err != nil {
		slogx.FromContext(ctx).Error("failed to delete account", "user_id", userID, "err", err)
		writeAuthError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleVerificationStatus reports where an account sits in onboarding.
//
//	@Summary		Get verification status
//	@Description	Reports whether the account's email is verified, whether it has been approved, whether the next login needs a one-time code, and whether it is locked. Used by onboarding screens to poll for approval.
//	@Tags			Users
//	@Produce		json
//	@Param			id	path		string									true	"User ID"
//	@Success		200	{object}	accountsdk.VerificationStatusResponse	"Onboarding state"
//	@Failure		404	{object}	accountsdk.ErrorResponse				"No such account"
//	@Router			/v1/users/{id}/verification-status [get].
func (h *UsersHandler) HandleVerificationStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		accountsdk.ErrNotFound.WriteError(w)
		return
	}

	status, err := h.AccountService.VerificationStatus(r.Context(), userID)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.VerificationStatusResponse{
		EmailVerified: status.EmailVerified,
		Approved:      status.Approved,
		RequiresOTP:   status.RequiresOTP,
		IsLocked:      status.IsLocked,
	})
}
