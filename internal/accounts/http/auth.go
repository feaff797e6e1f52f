package http

import (
	"net/http"
	"strings"

	"github.com/assignhub/assignhub/internal/accounts/service"
	"github.com/assignhub/assignhub/pkg/accountsdk"
	"github.com/assignhub/assignhub/pkg/httpx"
	"github.com/assignhub/assignhub/pkg/slogx"
)

type AuthHandler struct {
	AccountService *service.AccountService
	SessionService *service.SessionService
	UserService    *service.UserService
}

// HandleRegister creates a new account and emails a verification link.
//
//	@Summary		Register a new account
//	@Description	Creates an unverified, unapproved account and sends an email verification link. Self-registration is limited to the monitor and student roles; the role defaults to student when omitted.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RegisterRequest				true	"Registration details"
//	@Success		201		{object}	accountsdk.RegisterResponse				"Account created, verification email sent"
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse		"Invalid request body or validation failed"
//	@Failure		409		{object}	accountsdk.ErrorResponse				"Email already registered"
//	@Failure		429		{object}	accountsdk.ErrorResponse				"Rate limit exceeded"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	u, err := h.AccountService.Register(r.Context(),
		strings.TrimSpace(req.Name), req.Email, req.Password, req.Role)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.RegisterResponse{
		UserID:                    u.ID,
		Email:                     u.Email,
		RequiresEmailVerification: true,
		RequiresApproval:          true,
	})
}

// HandleLogin authenticates with email and password.
//
//	@Summary		Log in
//	@Description	Authenticates with email and password. First-time logins receive a 409 response indicating that a one-time code was emailed; submit it via /v1/auth/verify-otp to complete sign-in.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.LoginRequest		true	"Login credentials"
//	@Success		200		{object}	accountsdk.AuthResponse		"Signed session credential"
//	@Failure		400		{object}	accountsdk.ValidationErrorResponse	"Invalid request body"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"Invalid email or password"
//	@Failure		403		{object}	accountsdk.ErrorResponse	"Account locked, unverified, or awaiting approval"
//	@Failure		409		{object}	accountsdk.ErrorResponse	"One-time code required (check email)"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	res, err := h.AccountService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.AuthResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresIn: h.SessionService.TTLSeconds(),
		User:      userInfo(res.User),
	})
}

// HandleVerifyOTP submits the emailed one-time code to complete sign-in.
//
//	@Summary		Verify one-time code
//	@Description	Completes a login that required an emailed one-time code. Wrong codes consume an attempt; an exhausted or expired challenge requires logging in again.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.VerifyOTPRequest	true	"Email and six-digit code"
//	@Success		200		{object}	accountsdk.AuthResponse		"Signed session credential"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"No pending code for this account"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"Incorrect or expired code"
//	@Router			/v1/auth/verify-otp [post].
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	res, err := h.AccountService.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.AuthResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresIn: h.SessionService.TTLSeconds(),
		User:      userInfo(res.User),
	})
}

// HandleResendOTP emails a fresh one-time code.
//
//	@Summary		Resend one-time code
//	@Description	Invalidates the pending one-time code and emails a fresh one. Throttled per account.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ResendOTPRequest	true	"Account email"
//	@Success		200		{object}	accountsdk.MessageResponse	"Code sent"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"No pending code for this account"
//	@Failure		429		{object}	accountsdk.ErrorResponse	"Requested too soon"
//	@Router			/v1/auth/resend-otp [post].
func (h *AuthHandler) HandleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.ResendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	if err := h.AccountService.ResendOTP(r.Context(), req.Email); err != nil {
		writeAuthError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Message: "a new code has been sent to your email",
	})
}

// HandleVerifyEmail consumes an emailed verification link.
//
//	@Summary		Verify email address
//	@Description	Consumes the single-use token from the emailed verification link and marks the account's email verified.
//	@Tags			Auth
//	@Produce		json
//	@Param			token	path		string						true	"Opaque verification token"
//	@Success		200		{object}	accountsdk.MessageResponse	"Email verified"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"Invalid, expired, or already-used link"
//	@Router			/v1/auth/verify-email/{token} [get].
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		accountsdk.ErrTokenInvalid.WriteError(w)
		return
	}

	u, err := h.AccountService.VerifyEmail(r.Context(), token)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	msg := "email verified, you can sign in once an administrator approves your account"
	if u.Approved {
		msg = "email verified, you can now sign in"
	}
	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{Message: msg})
}

// HandleResendVerification emails a fresh verification link.
//
//	@Summary		Resend verification email
//	@Description	Invalidates outstanding verification links and emails a fresh one. Throttled per account.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ResendVerificationRequest	true	"Account email"
//	@Success		200		{object}	accountsdk.MessageResponse				"Link sent"
//	@Failure		404		{object}	accountsdk.ErrorResponse				"No account with this email"
//	@Failure		409		{object}	accountsdk.ErrorResponse				"Email already verified"
//	@Failure		429		{object}	accountsdk.ErrorResponse				"Requested too soon"
//	@Router			/v1/auth/resend-verification [post].
func (h *AuthHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req accountsdk.ResendVerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	if err := h.AccountService.ResendVerification(r.Context(), req.Email); err != nil {
		writeAuthError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Message: "a new verification link has been sent to your email",
	})
}

// HandleMe returns the authenticated account.
//
//	@Summary		Get current account
//	@Description	Returns the account behind the presented session credential.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.UserInfo			"The authenticated account"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing session credential"
//	@Router			/v1/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := callerID(r)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	u, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		writeAuthError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userInfo(u))
}

// HandleLogout revokes the presented session.
//
//	@Summary		Log out
//	@Description	Revokes the session behind the presented credential. The credential stops working immediately even though its signature remains valid until expiry.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Session revoked"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing session credential"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sid, ok := ctx.Value(httpx.CtxKeySessionID).(string)
	if !ok || sid == "" {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.SessionService.Revoke(ctx, sid); err != nil {
		slogx.FromContext(ctx).Error("failed to revoke session", "sid", sid, "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
