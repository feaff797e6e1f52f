package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/assignhub/assignhub/internal/accounts/service"
	"github.com/assignhub/assignhub/pkg/accountsdk"
	"github.com/assignhub/assignhub/pkg/httpx"
	"github.com/assignhub/assignhub/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the accounts system
//	@Description	Creates the first administrator account on a fresh deployment. The admin is created pre-verified and pre-approved. Only works while the user table is empty and requires the configured bootstrap token.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string								true	"Bootstrap token for authorization"
//	@Param			request				body		accountsdk.BootstrapRequest			true	"Initial admin details"
//	@Success		201					{object}	accountsdk.BootstrapResponse		"Admin account created"
//	@Failure		400					{object}	accountsdk.ValidationErrorResponse	"Invalid request body or validation failed"
//	@Failure		401					{object}	accountsdk.ErrorResponse			"Missing or invalid bootstrap token, or system already bootstrapped"
//	@Failure		404					{object}	accountsdk.ErrorResponse			"Bootstrap not enabled (no token configured)"
//	@Failure		500					{object}	accountsdk.ErrorResponse			"Failed to create the admin account"
//	@Router			/v1/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())
	l.Info("starting to bootstrap")

	// 1. Check if enabled
	if h.BootstrapService.Token == "" {
		httpx.WriteJSON(w, http.StatusNotFound, accountsdk.ErrorResponse{
			Error:            accountsdk.ErrorCodeNotFound,
			ErrorDescription: "Bootstrap endpoint is not enabled",
		})
		return
	}

	// 2. Require bootstrap token header
	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, accountsdk.ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Bootstrap token is required in X-Bootstrap-Token header",
		})
		return
	}

	// 3. Parse request body and validate
	var req accountsdk.BootstrapRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.Validate(); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	// 4. Perform bootstrap
	adminUserID, err := h.BootstrapService.Bootstrap(
		r.Context(),
		token,
		strings.TrimSpace(req.Name),
		req.Email,
		req.Password,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteJSON(w, http.StatusUnauthorized, accountsdk.ErrorResponse{
				Error:            "unauthorized",
				ErrorDescription: "System has already been bootstrapped",
			})
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteJSON(w, http.StatusUnauthorized, accountsdk.ErrorResponse{
				Error:            "unauthorized",
				ErrorDescription: "Invalid bootstrap token",
			})
		default:
			l.Error("bootstrap failed", "err", err)
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, accountsdk.BootstrapResponse{
		AdminUserID: adminUserID,
	})
}
