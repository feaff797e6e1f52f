package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/store"
)

const userColumns = `id, name, email, password_hash, role, email_verified, approved, locked, failed_attempts, last_login_at, created_at, updated_at`

type usersRepo struct {
	q querier
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(email))
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, email_verified, approved, locked, failed_attempts, last_login_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role.String(),
		u.EmailVerified, u.Approved, u.Locked, u.FailedAttempts,
		mapOptionalTime(u.LastLoginAt), now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) UpdateName(ctx context.Context, userID, name string) error {
	return r.exec(ctx,
		`UPDATE users SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), userID)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
}

func (r *usersRepo) SetEmailVerified(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) SetApproved(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET approved = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) SetRole(ctx context.Context, userID string, role domain.Role) error {
	return r.exec(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		role.String(), time.Now().UTC(), userID)
}

// IncrementFailedAttempts is a single atomic statement so concurrent failed
// logins serialise at the database and the lockout threshold cannot be
// raced past.
func (r *usersRepo) IncrementFailedAttempts(ctx context.Context, userID string) (int, error) {
	row := r.q.QueryRowContext(ctx,
		`UPDATE users SET failed_attempts = failed_attempts + 1, updated_at = ?
		 WHERE id = ? RETURNING failed_attempts`,
		time.Now().UTC(), userID)

	var attempts int
	if err := row.Scan(&attempts); err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *usersRepo) ResetFailedAttempts(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET failed_attempts = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) SetLocked(ctx context.Context, userID string, locked bool) error {
	return r.exec(ctx,
		`UPDATE users SET locked = ?, updated_at = ? WHERE id = ?`,
		locked, time.Now().UTC(), userID)
}

func (r *usersRepo) Unlock(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET locked = 0, failed_attempts = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
}

func (r *usersRepo) SetLastLogin(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	return r.exec(ctx,
		`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`,
		now, now, userID)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = ?`, userID)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	return r.list(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
}

func (r *usersRepo) ListPendingUsers(ctx context.Context) ([]domain.User, error) {
	return r.list(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE email_verified = 1 AND approved = 0 ORDER BY created_at ASC`)
}

func (r *usersRepo) CountStats(ctx context.Context) (domain.Stats, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN email_verified = 1 AND approved = 0 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN locked = 1 THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN email_verified = 0 THEN 1 ELSE 0 END), 0)
		 FROM users`)

	var st domain.Stats
	if err := row.Scan(&st.TotalUsers, &st.PendingApprovals, &st.LockedUsers, &st.UnverifiedEmails); err != nil {
		return domain.Stats{}, err
	}
	return st, nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *usersRepo) list(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
