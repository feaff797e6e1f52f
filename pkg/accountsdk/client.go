package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SDKClient is a client for the AssignHub accounts service. It provides
// access to unauthenticated operations and can create authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new accounts service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account. The account cannot sign in until its email
// is verified and (for self-registered roles) an administrator approves it.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/register", req)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email and password. When the account requires a
// one-time code, Login returns an *OTPRequiredError; complete the sign-in
// with VerifyOTP.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeJSON(resp, &auth, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, auth), nil
}

// VerifyOTP completes a sign-in that required a one-time code.
func (c *SDKClient) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/verify-otp", VerifyOTPRequest{
		Email: email,
		Code:  code,
	})
	if err != nil {
		return nil, err
	}

	var auth AuthResponse
	if err := decodeJSON(resp, &auth, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, auth), nil
}

// ResendOTP requests a fresh one-time code for a pending challenge.
func (c *SDKClient) ResendOTP(ctx context.Context, email string) error {
	resp, err := c.postJSON(ctx, "/v1/auth/resend-otp", ResendOTPRequest{Email: email})
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// VerifyEmail consumes an email verification token.
func (c *SDKClient) VerifyEmail(ctx context.Context, token string) error {
	path := "/v1/auth/verify-email/" + url.PathEscape(token)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// ResendVerification requests a fresh email verification link.
func (c *SDKClient) ResendVerification(ctx context.Context, email string) error {
	resp, err := c.postJSON(ctx, "/v1/auth/resend-verification", ResendVerificationRequest{Email: email})
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// Bootstrap creates the initial admin account on a fresh deployment.
// The bootstrapToken must match the service's configured token, if any.
func (c *SDKClient) Bootstrap(ctx context.Context, req BootstrapRequest, bootstrapToken string) (*BootstrapResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if bootstrapToken != "" {
		headers["X-Bootstrap-Token"] = bootstrapToken
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", bytes.NewReader(body), headers)
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVerificationStatus reports where an account sits in the onboarding
// pipeline. This endpoint is public so clients can guide users.
func (c *SDKClient) GetVerificationStatus(ctx context.Context, userID string) (*VerificationStatusResponse, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/verification-status"
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out VerificationStatusResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewSessionFromToken creates an authenticated session from an existing
// token, e.g. one stored from a previous sign-in.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}
