package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/notify"
	"github.com/assignhub/assignhub/internal/accounts/store"
	"github.com/assignhub/assignhub/pkg/cryptox"
	"github.com/assignhub/assignhub/pkg/idx"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to student role", func(t *testing.T) {
		env := newTestEnv(t)

		u, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)
		require.Equal(t, domain.RoleStudent, u.Role)
		require.False(t, u.EmailVerified)
		require.False(t, u.Approved)
		require.False(t, u.Locked)
	})

	t.Run("normalizes email", func(t *testing.T) {
		env := newTestEnv(t)

		u, err := env.accounts.Register(ctx, "Alice", "  Alice@Example.COM ", "password123", "")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", u.Email)

		_, err = env.store.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
	})

	t.Run("monitor role accepted", func(t *testing.T) {
		env := newTestEnv(t)

		u, err := env.accounts.Register(ctx, "Morgan", "morgan@example.com", "password123", "monitor")
		require.NoError(t, err)
		require.Equal(t, domain.RoleMonitor, u.Role)
	})

	t.Run("admin role rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.Register(ctx, "Eve", "eve@example.com", "password123", "admin")
		require.ErrorIs(t, err, ErrRoleNotAllowed)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.Register(ctx, "Eve", "eve@example.com", "password123", "superuser")
		require.ErrorIs(t, err, ErrRoleNotAllowed)
	})

	t.Run("duplicate email rejected case-insensitively", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		_, err = env.accounts.Register(ctx, "Mallory", "ALICE@example.com", "different456", "")
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("sends a verification email", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		msg := env.notifier.last(t, notify.PurposeEmailVerification)
		require.Equal(t, "alice@example.com", msg.To)
		require.NotEmpty(t, msg.Token)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		env := newTestEnv(t)

		u, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		stored, err := env.store.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotEqual(t, "password123", stored.PasswordHash)
		require.NoError(t, cryptox.VerifyPassword("password123", stored.PasswordHash))
	})
}

func TestVerifyEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token verifies the account", func(t *testing.T) {
		env := newTestEnv(t)

		u, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		token := env.notifier.last(t, notify.PurposeEmailVerification).Token
		verified, err := env.accounts.VerifyEmail(ctx, token)
		require.NoError(t, err)
		require.Equal(t, u.ID, verified.ID)
		require.True(t, verified.EmailVerified)
	})

	t.Run("token is single use", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		token := env.notifier.last(t, notify.PurposeEmailVerification).Token
		_, err = env.accounts.VerifyEmail(ctx, token)
		require.NoError(t, err)

		_, err = env.accounts.VerifyEmail(ctx, token)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.VerifyEmail(ctx, "no-such-token")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		env := newTestEnv(t)

		u, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		raw := "expired-raw-token"
		record := domain.VerificationToken{
			ID:        idx.New().String(),
			UserID:    u.ID,
			TokenHash: cryptox.FingerprintToken(raw),
			ExpiresAt: time.Now().UTC().Add(-time.Minute),
			CreatedAt: time.Now().UTC().Add(-25 * time.Hour),
		}
		require.NoError(t, env.store.VerificationTokens().CreateToken(ctx, record))

		_, err = env.accounts.VerifyEmail(ctx, raw)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestResendVerification(t *testing.T) {
	ctx := context.Background()

	t.Run("throttled right after registration", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		err = env.accounts.ResendVerification(ctx, "alice@example.com")
		require.ErrorIs(t, err, ErrResendThrottled)
	})

	t.Run("issues a fresh token after the interval", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.ResendInterval = time.Nanosecond

		_, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)
		firstToken := env.notifier.last(t, notify.PurposeEmailVerification).Token

		time.Sleep(time.Millisecond)

		require.NoError(t, env.accounts.ResendVerification(ctx, "alice@example.com"))
		secondToken := env.notifier.last(t, notify.PurposeEmailVerification).Token
		require.NotEqual(t, firstToken, secondToken)

		// The old link died with the reissue.
		_, err = env.accounts.VerifyEmail(ctx, firstToken)
		require.ErrorIs(t, err, ErrTokenInvalid)

		_, err = env.accounts.VerifyEmail(ctx, secondToken)
		require.NoError(t, err)
	})

	t.Run("already verified", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")

		err := env.accounts.ResendVerification(ctx, "alice@example.com")
		require.ErrorIs(t, err, ErrAlreadyVerified)
	})

	t.Run("unknown email", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.accounts.ResendVerification(ctx, "nobody@example.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email reports invalid credentials", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.Login(ctx, "nobody@example.com", "whatever")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unverified email blocks login", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		_, err = env.accounts.Login(ctx, "alice@example.com", "password123")
		require.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("unapproved account blocks login", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		token := env.notifier.last(t, notify.PurposeEmailVerification).Token
		_, err = env.accounts.VerifyEmail(ctx, token)
		require.NoError(t, err)

		_, err = env.accounts.Login(ctx, "alice@example.com", "password123")
		require.ErrorIs(t, err, ErrApprovalPending)
	})

	t.Run("first login requires an emailed code", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")

		_, err := env.accounts.Login(ctx, "alice@example.com", "password123")

		var otpErr *OTPRequiredError
		require.ErrorAs(t, err, &otpErr)
		require.Equal(t, "alice@example.com", otpErr.Email)

		code := env.notifier.last(t, notify.PurposeLoginCode).Code
		require.Len(t, code, 6)
	})

	t.Run("second login skips the code", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")
		env.loginThroughOTP(t, "alice@example.com", "password123")

		res, err := env.accounts.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
		require.NotNil(t, res.User.LastLoginAt)
	})

	t.Run("require otp every login", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.RequireOTPEveryLogin = true
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")
		env.loginThroughOTP(t, "alice@example.com", "password123")

		_, err := env.accounts.Login(ctx, "alice@example.com", "password123")
		var otpErr *OTPRequiredError
		require.ErrorAs(t, err, &otpErr)
	})

	t.Run("lockout after repeated failures", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.LockoutThreshold = 3
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")

		_, err := env.accounts.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = env.accounts.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		// The attempt that crosses the threshold reports the lock.
		_, err = env.accounts.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrAccountLocked)

		// Correct password no longer helps.
		_, err = env.accounts.Login(ctx, "alice@example.com", "password123")
		require.ErrorIs(t, err, ErrAccountLocked)
	})

	t.Run("lockout revokes existing sessions", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.LockoutThreshold = 2
		u := env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")
		env.loginThroughOTP(t, "alice@example.com", "password123")

		res, err := env.accounts.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)

		claims, err := env.sessions.KeyManager.Verifier.Verify(res.Token)
		require.NoError(t, err)

		active, err := env.sessions.SessionActive(ctx, claims.SID)
		require.NoError(t, err)
		require.True(t, active)

		_, err = env.accounts.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = env.accounts.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrAccountLocked)

		active, err = env.sessions.SessionActive(ctx, claims.SID)
		require.NoError(t, err)
		require.False(t, active, "sessions die when the account locks")

		stored, err := env.store.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, stored.Locked)
	})

	t.Run("good password resets the failure counter", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.LockoutThreshold = 3
		u := env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")
		env.loginThroughOTP(t, "alice@example.com", "password123")

		_, err := env.accounts.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = env.accounts.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = env.accounts.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)

		stored, err := env.store.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Zero(t, stored.FailedAttempts)
	})
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()

	// beginChallenge registers, verifies, approves, and triggers the first
	// login so a challenge is pending.
	beginChallenge := func(t *testing.T, env *testEnv) string {
		t.Helper()
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")
		_, err := env.accounts.Login(ctx, "alice@example.com", "password123")
		var otpErr *OTPRequiredError
		require.ErrorAs(t, err, &otpErr)
		return env.notifier.last(t, notify.PurposeLoginCode).Code
	}

	t.Run("correct code completes the login", func(t *testing.T) {
		env := newTestEnv(t)
		code := beginChallenge(t, env)

		res, err := env.accounts.VerifyOTP(ctx, "alice@example.com", code)
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
	})

	t.Run("challenge is single use", func(t *testing.T) {
		env := newTestEnv(t)
		code := beginChallenge(t, env)

		_, err := env.accounts.VerifyOTP(ctx, "alice@example.com", code)
		require.NoError(t, err)

		_, err = env.accounts.VerifyOTP(ctx, "alice@example.com", code)
		require.ErrorIs(t, err, ErrNoPendingChallenge)
	})

	t.Run("wrong code decrements attempts then exhausts", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.OTPMaxAttempts = 2
		code := beginChallenge(t, env)

		_, err := env.accounts.VerifyOTP(ctx, "alice@example.com", "000000")
		require.ErrorIs(t, err, ErrOTPIncorrect)

		_, err = env.accounts.VerifyOTP(ctx, "alice@example.com", "000000")
		require.ErrorIs(t, err, ErrOTPExpired)

		// The correct code is dead once the challenge is exhausted.
		_, err = env.accounts.VerifyOTP(ctx, "alice@example.com", code)
		require.ErrorIs(t, err, ErrNoPendingChallenge)
	})

	t.Run("expired challenge rejected", func(t *testing.T) {
		env := newTestEnv(t)
		u := env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")

		ch := domain.OTPChallenge{
			ID:                idx.New().String(),
			UserID:            u.ID,
			CodeHash:          cryptox.FingerprintToken("123456"),
			ExpiresAt:         time.Now().UTC().Add(-time.Minute),
			AttemptsRemaining: 3,
			CreatedAt:         time.Now().UTC().Add(-10 * time.Minute),
		}
		require.NoError(t, env.store.OTPChallenges().CreateChallenge(ctx, ch))

		_, err := env.accounts.VerifyOTP(ctx, "alice@example.com", "123456")
		require.ErrorIs(t, err, ErrOTPExpired)
	})

	t.Run("no pending challenge", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")

		_, err := env.accounts.VerifyOTP(ctx, "alice@example.com", "123456")
		require.ErrorIs(t, err, ErrNoPendingChallenge)
	})

	t.Run("unknown email", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.accounts.VerifyOTP(ctx, "nobody@example.com", "123456")
		require.ErrorIs(t, err, ErrNoPendingChallenge)
	})
}

func TestResendOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("throttled right after the challenge", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")

		_, err := env.accounts.Login(ctx, "alice@example.com", "password123")
		var otpErr *OTPRequiredError
		require.ErrorAs(t, err, &otpErr)

		err = env.accounts.ResendOTP(ctx, "alice@example.com")
		require.ErrorIs(t, err, ErrResendThrottled)
	})

	t.Run("fresh code invalidates the old one", func(t *testing.T) {
		env := newTestEnv(t)
		env.accounts.ResendInterval = time.Nanosecond
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")

		_, err := env.accounts.Login(ctx, "alice@example.com", "password123")
		var otpErr *OTPRequiredError
		require.ErrorAs(t, err, &otpErr)
		firstCode := env.notifier.last(t, notify.PurposeLoginCode).Code

		time.Sleep(time.Millisecond)
		require.NoError(t, env.accounts.ResendOTP(ctx, "alice@example.com"))
		secondCode := env.notifier.last(t, notify.PurposeLoginCode).Code

		if firstCode != secondCode {
			_, err = env.accounts.VerifyOTP(ctx, "alice@example.com", firstCode)
			require.ErrorIs(t, err, ErrOTPIncorrect)
		}

		res, err := env.accounts.VerifyOTP(ctx, "alice@example.com", secondCode)
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
	})

	t.Run("no pending challenge", func(t *testing.T) {
		env := newTestEnv(t)
		env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")

		err := env.accounts.ResendOTP(ctx, "alice@example.com")
		require.ErrorIs(t, err, ErrNoPendingChallenge)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the password and revokes sessions", func(t *testing.T) {
		env := newTestEnv(t)
		u := env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")
		res := env.loginThroughOTP(t, "alice@example.com", "password123")

		claims, err := env.sessions.KeyManager.Verifier.Verify(res.Token)
		require.NoError(t, err)

		require.NoError(t, env.accounts.ChangePassword(ctx, u.ID, "password123", "newpassword456"))

		active, err := env.sessions.SessionActive(ctx, claims.SID)
		require.NoError(t, err)
		require.False(t, active, "old sessions die on password change")

		_, err = env.accounts.Login(ctx, "alice@example.com", "password123")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		res2, err := env.accounts.Login(ctx, "alice@example.com", "newpassword456")
		require.NoError(t, err)
		require.NotEmpty(t, res2.Token)
	})

	t.Run("wrong current password", func(t *testing.T) {
		env := newTestEnv(t)
		u := env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")

		err := env.accounts.ChangePassword(ctx, u.ID, "wrong", "newpassword456")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.accounts.ChangePassword(ctx, idx.New().String(), "a", "b")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the user and their sessions", func(t *testing.T) {
		env := newTestEnv(t)
		u := env.registerVerifiedApproved(t, "Alice", "alice@example.com", "password123")
		res := env.loginThroughOTP(t, "alice@example.com", "password123")

		claims, err := env.sessions.KeyManager.Verifier.Verify(res.Token)
		require.NoError(t, err)

		require.NoError(t, env.accounts.DeleteAccount(ctx, u.ID))

		_, err = env.store.Users().GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)

		active, err := env.sessions.SessionActive(ctx, claims.SID)
		require.NoError(t, err)
		require.False(t, active)
	})

	t.Run("unknown user", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.accounts.DeleteAccount(ctx, idx.New().String())
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestVerificationStatus(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t)
	u, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
	require.NoError(t, err)

	status, err := env.accounts.VerificationStatus(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, status.EmailVerified)
	require.False(t, status.Approved)
	require.True(t, status.RequiresOTP, "accounts that have never logged in need a code")
	require.False(t, status.IsLocked)

	token := env.notifier.last(t, notify.PurposeEmailVerification).Token
	_, err = env.accounts.VerifyEmail(ctx, token)
	require.NoError(t, err)
	require.NoError(t, env.store.Users().SetApproved(ctx, u.ID))
	env.loginThroughOTP(t, "alice@example.com", "password123")

	status, err = env.accounts.VerificationStatus(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, status.EmailVerified)
	require.True(t, status.Approved)
	require.False(t, status.RequiresOTP)

	_, err = env.accounts.VerificationStatus(ctx, idx.New().String())
	require.ErrorIs(t, err, ErrUserNotFound)
}
