package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/store"
)

type otpChallengesRepo struct {
	q querier
}

func (r *otpChallengesRepo) CreateChallenge(ctx context.Context, c domain.OTPChallenge) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO otp_challenges (id, user_id, code_hash, expires_at, consumed_at, attempts_remaining, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.CodeHash, c.ExpiresAt.UTC(),
		mapOptionalTime(c.ConsumedAt), c.AttemptsRemaining, time.Now().UTC(),
	)
	return mapConstraint(err)
}

// GetActiveChallengeForUser returns the newest unconsumed challenge with
// attempts left. Expired challenges are returned too; the service decides
// whether to report OTPExpired or NoPendingChallenge.
func (r *otpChallengesRepo) GetActiveChallengeForUser(ctx context.Context, userID string) (domain.OTPChallenge, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, code_hash, expires_at, consumed_at, attempts_remaining, created_at
		 FROM otp_challenges
		 WHERE user_id = ? AND consumed_at IS NULL AND attempts_remaining > 0
		 ORDER BY created_at DESC LIMIT 1`, userID)
	return scanOTPChallenge(row)
}

// DecrementAttempts is atomic at the database so concurrent wrong guesses
// cannot mint extra attempts.
func (r *otpChallengesRepo) DecrementAttempts(ctx context.Context, challengeID string) (int, error) {
	row := r.q.QueryRowContext(ctx,
		`UPDATE otp_challenges SET attempts_remaining = attempts_remaining - 1
		 WHERE id = ? AND attempts_remaining > 0 RETURNING attempts_remaining`, challengeID)

	var remaining int
	if err := row.Scan(&remaining); err != nil {
		return 0, mapNotFound(err)
	}
	return remaining, nil
}

// MarkChallengeConsumed returns store.ErrNotFound when the challenge is
// missing or already consumed, so a double-submitted code succeeds once.
func (r *otpChallengesRepo) MarkChallengeConsumed(ctx context.Context, challengeID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE otp_challenges SET consumed_at = ? WHERE id = ? AND consumed_at IS NULL`,
		time.Now().UTC(), challengeID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *otpChallengesRepo) InvalidateChallengesForUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE otp_challenges SET consumed_at = ? WHERE user_id = ? AND consumed_at IS NULL`,
		time.Now().UTC(), userID)
	return err
}

func (r *otpChallengesRepo) DeleteExpiredChallenges(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM otp_challenges WHERE expires_at < ?`, time.Now().UTC())
	return err
}

func scanOTPChallenge(row *sql.Row) (domain.OTPChallenge, error) {
	var (
		c        domain.OTPChallenge
		consumed sql.NullTime
	)
	err := row.Scan(&c.ID, &c.UserID, &c.CodeHash, &c.ExpiresAt, &consumed, &c.AttemptsRemaining, &c.CreatedAt)
	if err != nil {
		return domain.OTPChallenge{}, mapNotFound(err)
	}
	c.ConsumedAt = mapNullTimePtr(consumed)
	return c, nil
}
