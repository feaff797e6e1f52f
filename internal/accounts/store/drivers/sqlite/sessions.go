package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/assignhub/assignhub/internal/accounts/domain"
)

type sessionsRepo struct {
	q querier
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, role, expires_at, revoked_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Role.String(), s.ExpiresAt.UTC(),
		mapOptionalTime(s.RevokedAt), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, user_id, role, expires_at, revoked_at, created_at
		 FROM sessions WHERE id = ?`, id)

	var (
		s       domain.Session
		role    string
		revoked sql.NullTime
	)
	err := row.Scan(&s.ID, &s.UserID, &role, &s.ExpiresAt, &revoked, &s.CreatedAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Role = domain.Role(role)
	s.RevokedAt = mapNullTimePtr(revoked)
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		time.Now().UTC(), id)
	return err
}

func (r *sessionsRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		time.Now().UTC(), userID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}
