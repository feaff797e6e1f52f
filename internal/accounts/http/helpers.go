package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/service"
	"github.com/assignhub/assignhub/pkg/accountsdk"
	"github.com/assignhub/assignhub/pkg/httpx"
)

// decodeJSON parses the request body into dst. Writes an invalid_request
// response and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ErrorResponse{
			Error:            accountsdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Request body must be valid JSON",
		})
		return false
	}
	return true
}

// writeValidationErrors reports field-level validation failures.
func writeValidationErrors(w http.ResponseWriter, details map[string]string) {
	httpx.WriteJSON(w, http.StatusBadRequest, accountsdk.ValidationErrorResponse{
		Code:    "validation_error",
		Message: "validation failed for some fields",
		Details: details,
	})
}

// callerID pulls the authenticated user's ID placed in the context by the
// authn middleware.
func callerID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(httpx.CtxKeyUserID).(string)
	return userID, ok && userID != ""
}

// userInfo maps a domain user to its API representation.
func userInfo(u domain.User) accountsdk.UserInfo {
	info := accountsdk.UserInfo{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role.String(),
		EmailVerified: u.EmailVerified,
		Approved:      u.Approved,
		Locked:        u.Locked,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.LastLoginAt != nil {
		s := u.LastLoginAt.UTC().Format(time.RFC3339)
		info.LastLoginAt = &s
	}
	return info
}

// userInfos maps a list of domain users.
func userInfos(users []domain.User) []accountsdk.UserInfo {
	out := make([]accountsdk.UserInfo, len(users))
	for i, u := range users {
		out[i] = userInfo(u)
	}
	return out
}

// writeAuthError maps account lifecycle errors to their API responses. An
// *OTPRequiredError becomes a 409 challenge; anything unmapped is a 500.
func writeAuthError(w http.ResponseWriter, err error) {
	var otpErr *service.OTPRequiredError
	if errors.As(err, &otpErr) {
		otpErr.WriteError(w)
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		accountsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrAccountLocked):
		accountsdk.ErrAccountLocked.WriteError(w)
	case errors.Is(err, service.ErrEmailNotVerified):
		accountsdk.ErrEmailNotVerified.WriteError(w)
	case errors.Is(err, service.ErrApprovalPending):
		accountsdk.ErrApprovalPending.WriteError(w)
	case errors.Is(err, service.ErrOTPIncorrect):
		accountsdk.ErrOTPIncorrect.WriteError(w)
	case errors.Is(err, service.ErrOTPExpired):
		accountsdk.ErrOTPExpired.WriteError(w)
	case errors.Is(err, service.ErrNoPendingChallenge):
		accountsdk.NewAPIError(http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest,
			"no pending one-time code for this account, log in first").WriteError(w)
	case errors.Is(err, service.ErrResendThrottled):
		accountsdk.ErrResendThrottled.WriteError(w)
	case errors.Is(err, service.ErrTokenInvalid):
		accountsdk.ErrTokenInvalid.WriteError(w)
	case errors.Is(err, service.ErrDuplicateEmail):
		accountsdk.ErrDuplicateEmail.WriteError(w)
	case errors.Is(err, service.ErrAlreadyVerified):
		accountsdk.NewAPIError(http.StatusConflict, accountsdk.ErrorCodeConflict,
			"email address is already verified").WriteError(w)
	case errors.Is(err, service.ErrRoleNotAllowed):
		accountsdk.NewAPIError(http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest,
			"requested role cannot be self-registered").WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		accountsdk.ErrNotFound.WriteError(w)
	default:
		accountsdk.ErrServerError.WriteError(w)
	}
}
