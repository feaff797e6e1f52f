package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/store"
)

type verificationTokensRepo struct {
	q querier
}

func (r *verificationTokensRepo) CreateToken(ctx context.Context, t domain.VerificationToken) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO verification_tokens (id, user_id, token_hash, expires_at, consumed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt.UTC(),
		mapOptionalTime(t.ConsumedAt), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *verificationTokensRepo) GetTokenByHash(ctx context.Context, hash string) (domain.VerificationToken, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, consumed_at, created_at
		 FROM verification_tokens WHERE token_hash = ?`, hash)
	return scanVerificationToken(row)
}

func (r *verificationTokensRepo) GetActiveTokenForUser(ctx context.Context, userID string) (domain.VerificationToken, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, consumed_at, created_at
		 FROM verification_tokens
		 WHERE user_id = ? AND consumed_at IS NULL AND expires_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		userID, time.Now().UTC())
	return scanVerificationToken(row)
}

// MarkTokenConsumed returns store.ErrNotFound when the token is missing or
// already consumed, so racing consumers see exactly one success.
func (r *verificationTokensRepo) MarkTokenConsumed(ctx context.Context, tokenID string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE verification_tokens SET consumed_at = ? WHERE id = ? AND consumed_at IS NULL`,
		time.Now().UTC(), tokenID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *verificationTokensRepo) InvalidateTokensForUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE verification_tokens SET consumed_at = ? WHERE user_id = ? AND consumed_at IS NULL`,
		time.Now().UTC(), userID)
	return err
}

func (r *verificationTokensRepo) DeleteExpiredTokens(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM verification_tokens WHERE expires_at < ?`, time.Now().UTC())
	return err
}

func scanVerificationToken(row *sql.Row) (domain.VerificationToken, error) {
	var (
		t        domain.VerificationToken
		consumed sql.NullTime
	)
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &consumed, &t.CreatedAt)
	if err != nil {
		return domain.VerificationToken{}, mapNotFound(err)
	}
	t.ConsumedAt = mapNullTimePtr(consumed)
	return t, nil
}
