package store

import (
	"context"
	"errors"

	"github.com/assignhub/assignhub/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep the surface tidy; multi-step
// operations that must be atomic go through WithTx. The store is the
// durability boundary, so anything concurrency-sensitive (failure counters,
// attempt counters, invalidate-then-issue) is a single statement or a single
// transaction here, never an in-memory lock in the service layer.
type Store interface {
	Users() Users
	VerificationTokens() VerificationTokens
	OTPChallenges() OTPChallenges
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and rolling
	// back on error. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by the lowercase form of the address.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	UpdateName(ctx context.Context, userID, name string) error

	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	SetEmailVerified(ctx context.Context, userID string) error

	SetApproved(ctx context.Context, userID string) error

	SetRole(ctx context.Context, userID string, role domain.Role) error

	// IncrementFailedAttempts bumps the counter atomically and returns the
	// new value, so two racing failed logins cannot skip past the lockout
	// threshold.
	IncrementFailedAttempts(ctx context.Context, userID string) (int, error)

	ResetFailedAttempts(ctx context.Context, userID string) error

	SetLocked(ctx context.Context, userID string, locked bool) error

	// Unlock clears the lock flag and resets the failure counter in one
	// statement.
	Unlock(ctx context.Context, userID string) error

	// SetLastLogin stamps the time of the most recent fully authenticated
	// login.
	SetLastLogin(ctx context.Context, userID string) error

	// DeleteUser cascades to verification_tokens, otp_challenges and
	// sessions (per schema).
	DeleteUser(ctx context.Context, userID string) error

	ListUsers(ctx context.Context) ([]domain.User, error)

	// ListPendingUsers returns verified users awaiting approval.
	ListPendingUsers(ctx context.Context) ([]domain.User, error)

	CountStats(ctx context.Context) (domain.Stats, error)

	// IsEmpty returns true if there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type VerificationTokens interface {
	// CreateToken writes a new token record (token_hash is the SHA-256
	// fingerprint of the opaque token).
	CreateToken(ctx context.Context, t domain.VerificationToken) error

	GetTokenByHash(ctx context.Context, hash string) (domain.VerificationToken, error)

	// GetActiveTokenForUser returns the newest unconsumed, unexpired token.
	GetActiveTokenForUser(ctx context.Context, userID string) (domain.VerificationToken, error)

	MarkTokenConsumed(ctx context.Context, tokenID string) error

	// InvalidateTokensForUser consumes every outstanding token for a user so
	// at most one active token exists after a reissue.
	InvalidateTokensForUser(ctx context.Context, userID string) error

	DeleteExpiredTokens(ctx context.Context) error
}

type OTPChallenges interface {
	CreateChallenge(ctx context.Context, c domain.OTPChallenge) error

	// GetActiveChallengeForUser returns the newest unconsumed challenge with
	// attempts remaining, expired or not; expiry is the service's call to
	// report distinctly.
	GetActiveChallengeForUser(ctx context.Context, userID string) (domain.OTPChallenge, error)

	// DecrementAttempts reduces attempts_remaining atomically and returns
	// the new value.
	DecrementAttempts(ctx context.Context, challengeID string) (int, error)

	MarkChallengeConsumed(ctx context.Context, challengeID string) error

	InvalidateChallengesForUser(ctx context.Context, userID string) error

	DeleteExpiredChallenges(ctx context.Context) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// RevokeSession flips revoked_at; revoking twice is a no-op.
	RevokeSession(ctx context.Context, id string) error

	// RevokeAllForUser bulk revocation (password change, deletion, lock).
	RevokeAllForUser(ctx context.Context, userID string) error

	DeleteExpiredSessions(ctx context.Context) error
}
