package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assignhub/assignhub/pkg/accountsdk"
)

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	s := newTestServer(t)
	admin := s.bootstrapAdmin(t, "admin@example.com", "admin-password")
	s.readyUser(t, "Student", "student@example.com", "password123")
	student := s.login(t, "student@example.com", "password123")

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/users", nil, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("student is forbidden", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/users", nil, student.Token)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Contains(t, rec.Body.String(), "insufficient_role")
	})

	t.Run("admin can list", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/users", nil, admin.Token)
		require.Equal(t, http.StatusOK, rec.Code)

		var res accountsdk.ListUsersResponse
		decodeResponse(t, rec, &res)
		require.Len(t, res.Users, 2)
	})
}

func TestAdminApprovalFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.bootstrapAdmin(t, "admin@example.com", "admin-password")

	res := s.register(t, "Pending Pete", "pete@example.com", "password123")
	s.verifyLastEmail(t)

	t.Run("pending list shows the unapproved account", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/users/pending", nil, admin.Token)
		require.Equal(t, http.StatusOK, rec.Code)

		var list accountsdk.ListUsersResponse
		decodeResponse(t, rec, &list)
		require.Len(t, list.Users, 1)
		require.Equal(t, "pete@example.com", list.Users[0].Email)
	})

	t.Run("approve unlocks login", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/v1/users/"+res.UserID+"/approve", nil, admin.Token)
		require.Equal(t, http.StatusOK, rec.Code)

		var info accountsdk.UserInfo
		decodeResponse(t, rec, &info)
		require.True(t, info.Approved)

		auth := s.login(t, "pete@example.com", "password123")
		require.NotEmpty(t, auth.Token)
	})

	t.Run("approve unknown account", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/v1/users/no-such-id/approve", nil, admin.Token)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("stats reflect the population", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/v1/users/stats/overview", nil, admin.Token)
		require.Equal(t, http.StatusOK, rec.Code)

		var stats accountsdk.StatsResponse
		decodeResponse(t, rec, &stats)
		require.Equal(t, 2, stats.TotalUsers)
		require.Equal(t, 0, stats.PendingApprovals)
		require.Equal(t, 0, stats.LockedUsers)
		require.Equal(t, 0, stats.UnverifiedEmails)
	})
}

func TestAdminUnlockEndpoint(t *testing.T) {
	s := newTestServer(t)
	admin := s.bootstrapAdmin(t, "admin@example.com", "admin-password")
	userID := s.readyUser(t, "Lenny", "lenny@example.com", "password123")

	// Lock the account by exhausting the attempt budget. The attempt that
	// crosses the threshold reports the lock, not bad credentials.
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/v1/auth/login", accountsdk.LoginRequest{
			Email:    "lenny@example.com",
			Password: "wrong-password",
		}, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := s.do(t, http.MethodPost, "/v1/auth/login", accountsdk.LoginRequest{
		Email:    "lenny@example.com",
		Password: "wrong-password",
	}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, accountsdk.ErrorCodeAccountLocked, errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/v1/users/"+userID+"/unlock", nil, admin.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var info accountsdk.UserInfo
	decodeResponse(t, rec, &info)
	require.False(t, info.Locked)

	auth := s.login(t, "lenny@example.com", "password123")
	require.NotEmpty(t, auth.Token)
}

func TestAdminRoleEndpoint(t *testing.T) {
	s := newTestServer(t)
	admin := s.bootstrapAdmin(t, "admin@example.com", "admin-password")
	userID := s.readyUser(t, "Mona", "mona@example.com", "password123")
	mona := s.login(t, "mona@example.com", "password123")

	t.Run("changes role and revokes sessions", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/v1/users/"+userID+"/role", accountsdk.UpdateRoleRequest{
			Role: "monitor",
		}, admin.Token)
		require.Equal(t, http.StatusOK, rec.Code)

		var info accountsdk.UserInfo
		decodeResponse(t, rec, &info)
		require.Equal(t, "monitor", info.Role)

		// Existing sessions carry the old role and must die.
		rec = s.do(t, http.MethodGet, "/v1/auth/me", nil, mona.Token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/v1/users/"+userID+"/role", accountsdk.UpdateRoleRequest{
			Role: "superuser",
		}, admin.Token)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admins cannot change their own role", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/v1/users/"+admin.User.ID+"/role", accountsdk.UpdateRoleRequest{
			Role: "student",
		}, admin.Token)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAdminDeleteEndpoint(t *testing.T) {
	s := newTestServer(t)
	admin := s.bootstrapAdmin(t, "admin@example.com", "admin-password")
	userID := s.readyUser(t, "Nina", "nina@example.com", "password123")
	nina := s.login(t, "nina@example.com", "password123")

	t.Run("admins cannot delete themselves", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/v1/users/"+admin.User.ID, nil, admin.Token)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("deletes the account and its sessions", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, "/v1/users/"+userID, nil, admin.Token)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = s.do(t, http.MethodGet, "/v1/auth/me", nil, nina.Token)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = s.do(t, http.MethodDelete, "/v1/users/"+userID, nil, admin.Token)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
