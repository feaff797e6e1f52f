package accountsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/assignhub/assignhub/pkg/httpx"
)

// Error codes returned by the accounts service.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeAccountLocked      = "account_locked"
	ErrorCodeEmailNotVerified   = "email_not_verified"
	ErrorCodeApprovalPending    = "approval_pending"
	ErrorCodeOTPRequired        = "otp_required"
	ErrorCodeOTPIncorrect       = "otp_incorrect"
	ErrorCodeOTPExpired         = "otp_expired"
	ErrorCodeDuplicateEmail     = "duplicate_email"
	ErrorCodeTokenInvalid       = "token_invalid"
	ErrorCodeResendThrottled    = "resend_throttled"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInsufficientRole   = "insufficient_role"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodeServerError        = "server_error"
)

// APIError represents an error response from the accounts service. It
// implements the error interface and is used both by the server (to write
// HTTP responses) and by the SDK client (to represent errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "invalid_credentials")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// Predefined errors shared by the server and SDK.
var (
	// ErrInvalidRequest is returned when the request is missing a required
	// field, fails validation, or is otherwise malformed.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required fields",
	}

	// ErrInvalidCredentials is returned when the email or password is wrong.
	// The description never says which, so a caller cannot probe for accounts.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	// ErrAccountLocked is returned when the account is locked after too many
	// failed attempts and an administrator must unlock it.
	ErrAccountLocked = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccountLocked,
		Description: "account is locked, contact an administrator",
	}

	// ErrEmailNotVerified is returned when the password checked out but the
	// email address has not been verified yet.
	ErrEmailNotVerified = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeEmailNotVerified,
		Description: "email address has not been verified",
	}

	// ErrApprovalPending is returned when the account is verified but still
	// waiting on administrator approval.
	ErrApprovalPending = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeApprovalPending,
		Description: "account is awaiting administrator approval",
	}

	// ErrOTPIncorrect is returned when the submitted one-time code is wrong.
	ErrOTPIncorrect = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeOTPIncorrect,
		Description: "incorrect one-time code",
	}

	// ErrOTPExpired is returned when the one-time code has expired or its
	// attempts have been exhausted.
	ErrOTPExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeOTPExpired,
		Description: "one-time code expired, request a new one",
	}

	// ErrDuplicateEmail is returned when registering with an email that is
	// already taken.
	ErrDuplicateEmail = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateEmail,
		Description: "an account with this email already exists",
	}

	// ErrTokenInvalid is returned when a verification token is unknown,
	// expired, or already used.
	ErrTokenInvalid = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeTokenInvalid,
		Description: "verification link is invalid or has expired",
	}

	// ErrResendThrottled is returned when a resend is requested too soon
	// after the previous one.
	ErrResendThrottled = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeResendThrottled,
		Description: "please wait before requesting another code",
	}

	// ErrInvalidToken is returned when the access token is missing, invalid,
	// expired or revoked.
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is missing, invalid, expired or revoked",
	}

	// ErrInsufficientRole is returned when the caller's role does not permit
	// the operation.
	ErrInsufficientRole = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientRole,
		Description: "your role does not permit this operation",
	}

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	// ErrServerError is returned when the service encountered an unexpected
	// condition.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewAPIError creates a new APIError with the given status code, error code,
// and description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// OTPRequiredError is returned when a one-time code is required to complete
// sign-in. It's returned with HTTP 409 Conflict because the credentials were
// valid but the login conflicts with the account's current state.
type OTPRequiredError struct {
	// Email identifies the account the code was sent to
	Email string `json:"email"`
}

// Error implements the error interface.
func (e *OTPRequiredError) Error() string {
	return fmt.Sprintf("one-time code required for %s", e.Email)
}

// WriteError writes the OTP required challenge as a 409 Conflict.
func (e *OTPRequiredError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":             ErrorCodeOTPRequired,
		"error_description": "a one-time code has been sent to your email",
		"email":             e.Email,
	})
}

// parseErrorResponse attempts to parse an HTTP error response into a typed
// error. Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Check for an OTP challenge (409 Conflict)
	if resp.StatusCode == http.StatusConflict {
		var otpResp struct {
			Error string `json:"error"`
			Email string `json:"email"`
		}
		if err := json.Unmarshal(body, &otpResp); err == nil {
			if otpResp.Error == ErrorCodeOTPRequired {
				return &OTPRequiredError{Email: otpResp.Email}
			}
		}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// Try parsing as a validation error
	var valErr ValidationErrorResponse
	if err := json.Unmarshal(body, &valErr); err == nil && valErr.Code != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        valErr.Code,
			Description: valErr.Message,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
