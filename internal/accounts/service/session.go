package service

import (
	"context"
	"errors"
	"time"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/store"
	"github.com/assignhub/assignhub/pkg/idx"
	"github.com/assignhub/assignhub/pkg/jwtx"
	"github.com/assignhub/assignhub/pkg/slogx"
)

var ErrSignerUnavailable = errors.New("signer_unavailable")

// SessionService issues signed session credentials and tracks them
// server-side so they can be revoked before expiry. The credential is an
// EdDSA JWT whose "sid" claim points at the session row; the authn
// middleware checks that row on every request.
type SessionService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Issuer     string
	SessionTTL time.Duration
}

// Issue signs a credential for the user and records the backing session.
func (s *SessionService) Issue(ctx context.Context, u domain.User) (string, domain.Session, error) {
	now := time.Now().UTC()

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	signer := s.KeyManager.GetSigner()
	if signer == nil {
		return "", domain.Session{}, ErrSignerUnavailable
	}

	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Role:      u.Role,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	claims := jwtx.NewSessionClaims(
		u.ID, sess.ID, string(u.Role), u.Email, u.Name,
		ttl, s.Issuer, now,
	)

	token, err := signer.Sign(claims)
	if err != nil {
		return "", domain.Session{}, err
	}

	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return "", domain.Session{}, err
	}

	return token, sess, nil
}

// SessionActive reports whether the session exists, is unrevoked, and is
// unexpired. Satisfies httpx.SessionChecker.
func (s *SessionService) SessionActive(ctx context.Context, sid string) (bool, error) {
	sess, err := s.Store.Sessions().GetSessionByID(ctx, sid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if sess.Revoked() || sess.Expired(time.Now().UTC()) {
		return false, nil
	}
	return true, nil
}

// Revoke invalidates a single session. Revoking an already-revoked or
// unknown session is not an error.
func (s *SessionService) Revoke(ctx context.Context, sid string) error {
	err := s.Store.Sessions().RevokeSession(ctx, sid)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// RevokeAllForUser invalidates every session a user holds. Used on password
// change, account deletion, and admin lock.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID string) error {
	l := slogx.FromContext(ctx)
	if err := s.Store.Sessions().RevokeAllForUser(ctx, userID); err != nil {
		l.Error("failed to revoke sessions", "user_id", userID, "err", err)
		return err
	}
	return nil
}

// TTLSeconds returns the session lifetime in whole seconds for the
// expires_in response field.
func (s *SessionService) TTLSeconds() int {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	return int(ttl.Seconds())
}
