package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/store"
	"github.com/assignhub/assignhub/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *Store) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedUser(t, st)

	dup := domain.User{
		ID:           idx.New().String(),
		Name:         "Mallory",
		Email:        "Alice@Example.com",
		PasswordHash: "hash",
		Role:         domain.RoleStudent,
	}
	err := st.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st)

	got, err := st.Users().GetUserByEmail(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = st.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestIncrementFailedAttempts_Concurrent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st)

	const attempts = 10

	var wg sync.WaitGroup
	results := make(chan int, attempts)
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := st.Users().IncrementFailedAttempts(ctx, u.ID)
			if err != nil {
				errs <- err
				return
			}
			results <- n
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// Every increment must observe a distinct counter value.
	seen := make(map[int]bool)
	for n := range results {
		require.False(t, seen[n], "duplicate counter value %d", n)
		seen[n] = true
	}

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, attempts, got.FailedAttempts)
}

func TestUnlock_ClearsLockAndCounter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st)

	_, err := st.Users().IncrementFailedAttempts(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, st.Users().SetLocked(ctx, u.ID, true))

	require.NoError(t, st.Users().Unlock(ctx, u.ID))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, got.Locked)
	require.Zero(t, got.FailedAttempts)
}

func TestUpdatesOnMissingUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	missing := idx.New().String()

	require.ErrorIs(t, st.Users().UpdateName(ctx, missing, "x"), store.ErrNotFound)
	require.ErrorIs(t, st.Users().SetEmailVerified(ctx, missing), store.ErrNotFound)
	require.ErrorIs(t, st.Users().DeleteUser(ctx, missing), store.ErrNotFound)

	_, err := st.Users().IncrementFailedAttempts(ctx, missing)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUser_Cascades(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st)

	now := time.Now().UTC()
	token := domain.VerificationToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "token-hash",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, st.VerificationTokens().CreateToken(ctx, token))

	ch := domain.OTPChallenge{
		ID:                idx.New().String(),
		UserID:            u.ID,
		CodeHash:          "code-hash",
		ExpiresAt:         now.Add(time.Hour),
		AttemptsRemaining: 3,
		CreatedAt:         now,
	}
	require.NoError(t, st.OTPChallenges().CreateChallenge(ctx, ch))

	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Role:      u.Role,
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, st.Sessions().CreateSession(ctx, sess))

	require.NoError(t, st.Users().DeleteUser(ctx, u.ID))

	_, err := st.VerificationTokens().GetTokenByHash(ctx, "token-hash")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.OTPChallenges().GetActiveChallengeForUser(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Sessions().GetSessionByID(ctx, sess.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMarkTokenConsumed_SingleUse(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st)

	now := time.Now().UTC()
	token := domain.VerificationToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: "token-hash",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, st.VerificationTokens().CreateToken(ctx, token))

	require.NoError(t, st.VerificationTokens().MarkTokenConsumed(ctx, token.ID))
	require.ErrorIs(t, st.VerificationTokens().MarkTokenConsumed(ctx, token.ID), store.ErrNotFound)
}

func TestDecrementAttempts_StopsAtZero(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st)

	now := time.Now().UTC()
	ch := domain.OTPChallenge{
		ID:                idx.New().String(),
		UserID:            u.ID,
		CodeHash:          "code-hash",
		ExpiresAt:         now.Add(time.Hour),
		AttemptsRemaining: 2,
		CreatedAt:         now,
	}
	require.NoError(t, st.OTPChallenges().CreateChallenge(ctx, ch))

	n, err := st.OTPChallenges().DecrementAttempts(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = st.OTPChallenges().DecrementAttempts(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, 0, n)

	// The guard clause keeps the counter from going negative.
	_, err = st.OTPChallenges().DecrementAttempts(ctx, ch.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.OTPChallenges().GetActiveChallengeForUser(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetActiveChallenge_ReturnsNewest(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st)

	now := time.Now().UTC()
	old := domain.OTPChallenge{
		ID:                idx.New().String(),
		UserID:            u.ID,
		CodeHash:          "old-hash",
		ExpiresAt:         now.Add(time.Hour),
		AttemptsRemaining: 3,
		CreatedAt:         now.Add(-time.Minute),
	}
	require.NoError(t, st.OTPChallenges().CreateChallenge(ctx, old))
	require.NoError(t, st.OTPChallenges().InvalidateChallengesForUser(ctx, u.ID))

	fresh := domain.OTPChallenge{
		ID:                idx.New().String(),
		UserID:            u.ID,
		CodeHash:          "fresh-hash",
		ExpiresAt:         now.Add(time.Hour),
		AttemptsRemaining: 3,
		CreatedAt:         now,
	}
	require.NoError(t, st.OTPChallenges().CreateChallenge(ctx, fresh))

	got, err := st.OTPChallenges().GetActiveChallengeForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, fresh.ID, got.ID)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleStudent,
	}

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = st.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx_CommitsOnNil(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleStudent,
	}

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Users().CreateUser(ctx, u)
	})
	require.NoError(t, err)

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
}

func TestRevokeAllForUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		sess := domain.Session{
			ID:        idx.New().String(),
			UserID:    u.ID,
			Role:      u.Role,
			ExpiresAt: now.Add(time.Hour),
			CreatedAt: now,
		}
		require.NoError(t, st.Sessions().CreateSession(ctx, sess))
	}

	require.NoError(t, st.Sessions().RevokeAllForUser(ctx, u.ID))

	// Re-revoking after everything is revoked is a no-op.
	require.NoError(t, st.Sessions().RevokeAllForUser(ctx, u.ID))
}
