package accountsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session is an authenticated connection to the accounts service. Create one
// via SDKClient.Login, SDKClient.VerifyOTP, or SDKClient.NewSessionFromToken.
type Session struct {
	client *SDKClient
	token  string
	user   *UserInfo
}

func newSession(c *SDKClient, auth AuthResponse) *Session {
	user := auth.User
	return &Session{
		client: c,
		token:  auth.Token,
		user:   &user,
	}
}

// Token returns the session credential, e.g. for storage.
func (s *Session) Token() string {
	return s.token
}

// User returns the account returned at sign-in, or nil for sessions created
// from a stored token. Call Me for a fresh copy.
func (s *Session) User() *UserInfo {
	return s.user
}

// Me fetches the caller's account.
func (s *Session) Me(ctx context.Context) (*UserInfo, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	s.user = &out
	return &out, nil
}

// Logout revokes the current session on the server.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/logout", nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ChangePassword rotates the caller's password. All sessions, including this
// one, are revoked; sign in again afterwards.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	resp, err := s.doAuthJSON(ctx, http.MethodPost, "/v1/users/change-password", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// UpdateName changes the caller's display name.
func (s *Session) UpdateName(ctx context.Context, name string) (*UserInfo, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodPatch, "/v1/users/name", UpdateNameRequest{Name: name})
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	s.user = &out
	return &out, nil
}

// DeleteAccount permanently removes the caller's account.
func (s *Session) DeleteAccount(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/users/me", nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ListUsers returns all accounts. Requires the admin role.
func (s *Session) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ListUsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPendingUsers returns verified accounts awaiting approval. Requires the
// admin role.
func (s *Session) ListPendingUsers(ctx context.Context) (*ListUsersResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users/pending", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ListUsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ApproveUser approves a pending account. Requires the admin role.
func (s *Session) ApproveUser(ctx context.Context, userID string) (*UserInfo, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/approve"
	resp, err := s.doAuthRequest(ctx, http.MethodPost, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnlockUser clears a lockout and resets the failed attempt counter.
// Requires the admin role.
func (s *Session) UnlockUser(ctx context.Context, userID string) (*UserInfo, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/unlock"
	resp, err := s.doAuthRequest(ctx, http.MethodPost, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUserRole changes a user's role. Requires the admin role.
func (s *Session) UpdateUserRole(ctx context.Context, userID, role string) (*UserInfo, error) {
	path := "/v1/users/" + url.PathEscape(userID) + "/role"
	resp, err := s.doAuthJSON(ctx, http.MethodPatch, path, UpdateRoleRequest{Role: role})
	if err != nil {
		return nil, err
	}

	var out UserInfo
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account. Requires the admin role.
func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	path := "/v1/users/" + url.PathEscape(userID)
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// GetStats returns account population statistics. Requires the admin role.
func (s *Session) GetStats(ctx context.Context) (*StatsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users/stats/overview", nil, nil)
	if err != nil {
		return nil, err
	}

	var out StatsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
