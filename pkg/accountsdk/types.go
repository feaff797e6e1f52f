package accountsdk

import "github.com/assignhub/assignhub/pkg/jwtx"

// ErrorResponse is the standard error body returned by the accounts service.
// This is used internally for parsing HTTP error responses. Client code
// should use the APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_credentials")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ValidationErrorResponse is returned when request validation fails.
type ValidationErrorResponse struct {
	// Code is the error code (e.g., "validation_error")
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains field-specific validation errors (field name: error message)
	Details map[string]string `json:"details,omitempty"`
}

// RegisterRequest creates a new account. Self-registration is limited to the
// monitor and student roles; admin accounts are created via bootstrap or by
// an existing admin.
type RegisterRequest struct {
	// Name is the user's display name (2-64 chars)
	Name string `json:"name" validate:"required,min=2,max=64"`

	// Email is the login email address, stored lowercase
	Email string `json:"email" validate:"required,email"`

	// Password is the plaintext password (8-128 chars)
	Password string `json:"password" validate:"required,min=8,max=128"`

	// Role is the requested role; defaults to "student" when omitted
	Role string `json:"role,omitempty" validate:"omitempty,oneof=monitor student"`
}

// RegisterResponse contains the created account and its onboarding state.
type RegisterResponse struct {
	// UserID is the unique identifier of the created account
	UserID string `json:"userId"`

	// Email echoes the normalized email the verification link was sent to
	Email string `json:"email"`

	// RequiresEmailVerification is true until the emailed link is followed
	RequiresEmailVerification bool `json:"requiresEmailVerification"`

	// RequiresApproval is true until an administrator approves the account
	RequiresApproval bool `json:"requiresApproval"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful sign-in (login or OTP verification).
type AuthResponse struct {
	// Token is the signed session credential
	Token string `json:"token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the session credential
	ExpiresIn int `json:"expires_in"`

	// User is the authenticated account
	User UserInfo `json:"user"`
}

// VerifyOTPRequest submits the emailed one-time code to complete sign-in.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ResendOTPRequest asks for a fresh one-time code.
type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendVerificationRequest asks for a fresh email verification link.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest rotates the caller's password. All other sessions
// are revoked on success.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

// UpdateNameRequest changes the caller's display name.
type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,min=2,max=64"`
}

// UpdateRoleRequest changes a user's role (admin only).
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin monitor student"`
}

// UserInfo represents an account as returned by the API.
type UserInfo struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          string  `json:"role"`
	EmailVerified bool    `json:"emailVerified"`
	Approved      bool    `json:"approved"`
	Locked        bool    `json:"locked"`
	LastLoginAt   *string `json:"lastLoginAt,omitempty"` // RFC3339, null before first login
	CreatedAt     string  `json:"createdAt"`             // RFC3339
}

// VerificationStatusResponse reports where an account sits in the
// onboarding pipeline.
type VerificationStatusResponse struct {
	EmailVerified bool `json:"emailVerified"`
	Approved      bool `json:"approved"`
	RequiresOTP   bool `json:"requiresOTP"`
	IsLocked      bool `json:"isLocked"`
}

// ListUsersResponse contains a page of accounts.
type ListUsersResponse struct {
	Users []UserInfo `json:"users"`
}

// StatsResponse summarizes the account population for the admin dashboard.
type StatsResponse struct {
	TotalUsers       int `json:"totalUsers"`
	PendingApprovals int `json:"pendingApprovals"`
	LockedUsers      int `json:"lockedUsers"`
	UnverifiedEmails int `json:"unverifiedEmails"`
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// BootstrapRequest creates the initial admin account. Only works on an
// empty user table, optionally guarded by a shared bootstrap token.
type BootstrapRequest struct {
	// Name is the display name for the initial admin (2-64 chars)
	Name string `json:"name" validate:"required,min=2,max=64"`

	// Email is the admin's login email
	Email string `json:"email" validate:"required,email"`

	// Password is the admin's password (8-128 chars)
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// BootstrapResponse contains the ID of the created admin account.
type BootstrapResponse struct {
	AdminUserID string `json:"admin_user_id"`
}

// HealthResponse represents the response structure for health check
// endpoints. Used by both /livez and /readyz (readyz includes Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// JWKSResponse contains the JSON Web Key Set.
// This is returned from the GET /.well-known/jwks.json endpoint and contains
// public keys used to verify session credentials.
type JWKSResponse jwtx.JWKS

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Signer indicates the JWT signing capability status
	Signer string `json:"signer"`
}
