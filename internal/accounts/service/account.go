package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/notify"
	"github.com/assignhub/assignhub/internal/accounts/store"
	"github.com/assignhub/assignhub/pkg/accountsdk"
	"github.com/assignhub/assignhub/pkg/cryptox"
	"github.com/assignhub/assignhub/pkg/idx"
	"github.com/assignhub/assignhub/pkg/slogx"
)

const (
	// DefaultVerificationTTL is how long an emailed verification link stays valid.
	DefaultVerificationTTL = 24 * time.Hour

	// DefaultOTPTTL is how long an emailed login code stays valid.
	DefaultOTPTTL = 5 * time.Minute

	// DefaultOTPMaxAttempts is the number of wrong codes allowed per challenge.
	DefaultOTPMaxAttempts = 3

	// DefaultLockoutThreshold is the number of consecutive failed password
	// attempts after which the account locks.
	DefaultLockoutThreshold = 5

	// DefaultResendInterval is the minimum wait between resend requests.
	DefaultResendInterval = time.Minute
)

var (
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrRoleNotAllowed     = errors.New("role_not_allowed")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountLocked      = errors.New("account_locked")
	ErrEmailNotVerified   = errors.New("email_not_verified")
	ErrApprovalPending    = errors.New("approval_pending")
	ErrAlreadyVerified    = errors.New("already_verified")
	ErrTokenInvalid       = errors.New("token_invalid")
	ErrNoPendingChallenge = errors.New("no_pending_challenge")
	ErrOTPIncorrect       = errors.New("otp_incorrect")
	ErrOTPExpired         = errors.New("otp_expired")
	ErrResendThrottled    = errors.New("resend_throttled")
	ErrUserNotFound       = errors.New("user_not_found")
)

// OTPRequiredError is an alias to the SDK's OTPRequiredError for consistency
// between the service layer and the HTTP layer.
type OTPRequiredError = accountsdk.OTPRequiredError

// AccountService drives the account lifecycle: registration, email
// verification, login with lockout, OTP challenges, and password changes.
type AccountService struct {
	Store    store.Store
	Notifier notify.Notifier
	Sessions *SessionService

	VerificationTTL  time.Duration
	OTPTTL           time.Duration
	OTPMaxAttempts   int
	LockoutThreshold int
	ResendInterval   time.Duration

	// RequireOTPEveryLogin forces an emailed code on every login, not just
	// the first.
	RequireOTPEveryLogin bool
}

func (s *AccountService) verificationTTL() time.Duration {
	if s.VerificationTTL > 0 {
		return s.VerificationTTL
	}
	return DefaultVerificationTTL
}

func (s *AccountService) otpTTL() time.Duration {
	if s.OTPTTL > 0 {
		return s.OTPTTL
	}
	return DefaultOTPTTL
}

func (s *AccountService) otpMaxAttempts() int {
	if s.OTPMaxAttempts > 0 {
		return s.OTPMaxAttempts
	}
	return DefaultOTPMaxAttempts
}

func (s *AccountService) lockoutThreshold() int {
	if s.LockoutThreshold > 0 {
		return s.LockoutThreshold
	}
	return DefaultLockoutThreshold
}

func (s *AccountService) resendInterval() time.Duration {
	if s.ResendInterval > 0 {
		return s.ResendInterval
	}
	return DefaultResendInterval
}

// NormalizeEmail lowercases and trims an address. Emails are compared and
// stored in this form everywhere.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new unverified, unapproved account and emails a
// verification link. Only self-registerable roles are accepted; an empty
// role defaults to student.
func (s *AccountService) Register(
	ctx context.Context,
	name, email, password, roleName string,
) (domain.User, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	email = NormalizeEmail(email)

	// 1. Resolve and police the requested role
	if roleName == "" {
		roleName = string(domain.RoleStudent)
	}
	role, err := domain.ParseRole(roleName)
	if err != nil {
		return domain.User{}, ErrRoleNotAllowed
	}
	if !role.SelfRegisterable() {
		l.Warn("registration with non-registerable role rejected", slog.String("role", roleName))
		return domain.User{}, ErrRoleNotAllowed
	}

	// 2. Hash the password before touching the database
	passHash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3. Create the user and its first verification token atomically
	var rawToken string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateEmail
			}
			return err
		}

		rawToken, err = s.createVerificationToken(ctx, tx, u.ID, now)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	// 4. Send the verification link. Delivery failure doesn't undo the
	// registration; the user can ask for a resend.
	s.sendVerification(ctx, u.Email, rawToken)

	l.Info("user registered",
		slog.String("user_id", u.ID),
		slog.String("role", string(role)),
	)
	return u, nil
}

// VerifyEmail consumes a verification token and marks the account's email
// verified. Expired, consumed, and unknown tokens all report ErrTokenInvalid
// so the link itself can't be probed.
func (s *AccountService) VerifyEmail(ctx context.Context, rawToken string) (domain.User, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	hash := cryptox.FingerprintToken(strings.TrimSpace(rawToken))

	var u domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		t, err := tx.VerificationTokens().GetTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTokenInvalid
			}
			return err
		}

		if t.Consumed() || t.Expired(now) {
			return ErrTokenInvalid
		}

		if err := tx.VerificationTokens().MarkTokenConsumed(ctx, t.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Consumed by a concurrent request between read and write.
				return ErrTokenInvalid
			}
			return err
		}

		if err := tx.Users().SetEmailVerified(ctx, t.UserID); err != nil {
			return err
		}

		u, err = tx.Users().GetUserByID(ctx, t.UserID)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("email verified", slog.String("user_id", u.ID))
	return u, nil
}

// ResendVerification invalidates any outstanding verification tokens and
// emails a fresh link. Resends are throttled per account.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	now := time.Now().UTC()

	u, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if u.EmailVerified {
		return ErrAlreadyVerified
	}

	// Throttle: the newest active token's age is the time since last send
	if t, err := s.Store.VerificationTokens().GetActiveTokenForUser(ctx, u.ID); err == nil {
		if now.Sub(t.CreatedAt) < s.resendInterval() {
			return ErrResendThrottled
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	var rawToken string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.VerificationTokens().InvalidateTokensForUser(ctx, u.ID); err != nil {
			return err
		}
		rawToken, err = s.createVerificationToken(ctx, tx, u.ID, now)
		return err
	})
	if err != nil {
		return err
	}

	s.sendVerification(ctx, u.Email, rawToken)
	return nil
}

// Login authenticates with email and password. Possible outcomes:
//
//   - a full session (AuthResult with a token)
//   - *OTPRequiredError when a one-time code was emailed and must be
//     submitted via VerifyOTP
//   - ErrInvalidCredentials, ErrAccountLocked, ErrEmailNotVerified, or
//     ErrApprovalPending
//
// The lock is checked before the password so a locked account gives no
// signal about whether the password was right. Crossing the lockout
// threshold reports ErrAccountLocked on that same attempt.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 1. Locked accounts reject every attempt outright
	if u.Locked {
		return nil, ErrAccountLocked
	}

	// 2. Verify the password; count failures toward lockout
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		count, incErr := s.Store.Users().IncrementFailedAttempts(ctx, u.ID)
		if incErr != nil {
			l.Error("failed to count login failure", slog.Any("error", incErr))
			return nil, ErrInvalidCredentials
		}

		if count >= s.lockoutThreshold() {
			if lockErr := s.Store.Users().SetLocked(ctx, u.ID, true); lockErr != nil {
				l.Error("failed to lock account", slog.Any("error", lockErr))
				return nil, ErrInvalidCredentials
			}
			if s.Sessions != nil {
				_ = s.Sessions.RevokeAllForUser(ctx, u.ID)
			}
			l.Warn("account locked after repeated failures",
				slog.String("user_id", u.ID),
				slog.Int("attempts", count),
			)
			return nil, ErrAccountLocked
		}

		return nil, ErrInvalidCredentials
	}

	// 3. Password checked out; gate on lifecycle state
	if !u.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	if !u.Approved {
		return nil, ErrApprovalPending
	}

	// 4. Clear the failure counter on a good password
	if u.FailedAttempts > 0 {
		if err := s.Store.Users().ResetFailedAttempts(ctx, u.ID); err != nil {
			l.Error("failed to reset failure counter", slog.Any("error", err))
		}
	}

	// 5. First-time logins (and all logins when configured) need an emailed
	// one-time code before a session is issued
	if u.RequiresOTP(s.RequireOTPEveryLogin) {
		if err := s.beginOTPChallenge(ctx, u); err != nil {
			return nil, err
		}
		return nil, &OTPRequiredError{Email: u.Email}
	}

	return s.completeLogin(ctx, u)
}

// VerifyOTP completes a login that required an emailed code.
func (s *AccountService) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	u, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoPendingChallenge
		}
		return nil, err
	}

	ch, err := s.Store.OTPChallenges().GetActiveChallengeForUser(ctx, u.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoPendingChallenge
		}
		return nil, err
	}

	if ch.Expired(now) {
		return nil, ErrOTPExpired
	}

	// Compare fingerprints in constant time
	want := []byte(ch.CodeHash)
	got := []byte(cryptox.FingerprintToken(strings.TrimSpace(code)))
	if subtle.ConstantTimeCompare(want, got) != 1 {
		remaining, decErr := s.Store.OTPChallenges().DecrementAttempts(ctx, ch.ID)
		if decErr != nil && !errors.Is(decErr, store.ErrNotFound) {
			l.Error("failed to count otp failure", slog.Any("error", decErr))
		}
		if remaining <= 0 {
			l.Warn("otp challenge exhausted", slog.String("user_id", u.ID))
			return nil, ErrOTPExpired
		}
		return nil, ErrOTPIncorrect
	}

	// Account state may have changed since the code was issued
	if u.Locked {
		return nil, ErrAccountLocked
	}
	if !u.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	if !u.Approved {
		return nil, ErrApprovalPending
	}

	if err := s.Store.OTPChallenges().MarkChallengeConsumed(ctx, ch.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Consumed by a concurrent submission of the same code.
			return nil, ErrNoPendingChallenge
		}
		return nil, err
	}

	return s.completeLogin(ctx, u)
}

// ResendOTP invalidates the pending challenge and emails a fresh code.
func (s *AccountService) ResendOTP(ctx context.Context, email string) error {
	now := time.Now().UTC()

	u, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoPendingChallenge
		}
		return err
	}

	ch, err := s.Store.OTPChallenges().GetActiveChallengeForUser(ctx, u.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoPendingChallenge
		}
		return err
	}

	if now.Sub(ch.CreatedAt) < s.resendInterval() {
		return ErrResendThrottled
	}

	return s.beginOTPChallenge(ctx, u)
}

// ChangePassword rotates a user's password after verifying the current one,
// then revokes every session the user holds.
func (s *AccountService) ChangePassword(ctx context.Context, userID, current, next string) error {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(current, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	newHash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, newHash); err != nil {
		return err
	}

	if s.Sessions != nil {
		if err := s.Sessions.RevokeAllForUser(ctx, u.ID); err != nil {
			return err
		}
	}

	l.Info("password changed", slog.String("user_id", u.ID))
	return nil
}

// DeleteAccount removes a user's own account. Sessions are revoked first so
// in-flight credentials die with the row.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string) error {
	if s.Sessions != nil {
		if err := s.Sessions.RevokeAllForUser(ctx, userID); err != nil {
			return err
		}
	}

	err := s.Store.Users().DeleteUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// VerificationStatus reports where an account sits in the onboarding
// pipeline.
func (s *AccountService) VerificationStatus(ctx context.Context, userID string) (domain.VerificationStatus, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.VerificationStatus{}, ErrUserNotFound
		}
		return domain.VerificationStatus{}, err
	}

	return domain.VerificationStatus{
		EmailVerified: u.EmailVerified,
		Approved:      u.Approved,
		RequiresOTP:   u.RequiresOTP(s.RequireOTPEveryLogin),
		IsLocked:      u.Locked,
	}, nil
}

// completeLogin stamps the login time and issues a session.
func (s *AccountService) completeLogin(ctx context.Context, u domain.User) (*domain.AuthResult, error) {
	l := slogx.FromContext(ctx)

	if err := s.Store.Users().SetLastLogin(ctx, u.ID); err != nil {
		l.Error("failed to stamp last login", slog.Any("error", err))
	}

	token, _, err := s.Sessions.Issue(ctx, u)
	if err != nil {
		return nil, err
	}

	l.Info("login succeeded", slog.String("user_id", u.ID))
	return &domain.AuthResult{Token: token, User: u}, nil
}

// createVerificationToken writes a new token row and returns the opaque
// token for the email link. Only the fingerprint is stored.
func (s *AccountService) createVerificationToken(
	ctx context.Context,
	st store.Store,
	userID string,
	now time.Time,
) (string, error) {
	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	t := domain.VerificationToken{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(raw),
		ExpiresAt: now.Add(s.verificationTTL()),
		CreatedAt: now,
	}

	if err := st.VerificationTokens().CreateToken(ctx, t); err != nil {
		return "", err
	}
	return raw, nil
}

// beginOTPChallenge invalidates prior challenges, stores a fresh one, and
// emails the code.
func (s *AccountService) beginOTPChallenge(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()

	code, err := cryptox.GenerateOTPCode()
	if err != nil {
		return err
	}

	ch := domain.OTPChallenge{
		ID:                idx.New().String(),
		UserID:            u.ID,
		CodeHash:          cryptox.FingerprintToken(code),
		ExpiresAt:         now.Add(s.otpTTL()),
		AttemptsRemaining: s.otpMaxAttempts(),
		CreatedAt:         now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.OTPChallenges().InvalidateChallengesForUser(ctx, u.ID); err != nil {
			return err
		}
		return tx.OTPChallenges().CreateChallenge(ctx, ch)
	})
	if err != nil {
		return err
	}

	if s.Notifier != nil {
		if err := s.Notifier.Notify(ctx, notify.Message{
			To:      u.Email,
			Purpose: notify.PurposeLoginCode,
			Code:    code,
		}); err != nil {
			slogx.FromContext(ctx).Error("failed to send login code", slog.Any("error", err))
		}
	}
	return nil
}

func (s *AccountService) sendVerification(ctx context.Context, email, rawToken string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, notify.Message{
		To:      email,
		Purpose: notify.PurposeEmailVerification,
		Token:   rawToken,
	}); err != nil {
		slogx.FromContext(ctx).Error("failed to send verification email", slog.Any("error", err))
	}
}
