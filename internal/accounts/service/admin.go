package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/store"
	"github.com/assignhub/assignhub/pkg/slogx"
)

var (
	ErrUnknownRole  = errors.New("unknown_role")
	ErrSelfDemotion = errors.New("cannot_change_own_role")
	ErrSelfDeletion = errors.New("cannot_delete_own_account")
)

// AdminService covers the administrator-only account operations: approval,
// unlock, role changes, deletion, listing, and stats.
type AdminService struct {
	Store    store.Store
	Sessions *SessionService
}

// ApproveUser marks an account approved. Approving an already-approved
// account is a no-op, not an error.
func (s *AdminService) ApproveUser(ctx context.Context, userID string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if u.Approved {
		return u, nil
	}

	if err := s.Store.Users().SetApproved(ctx, u.ID); err != nil {
		return domain.User{}, err
	}
	u.Approved = true

	l.Info("user approved", slog.String("user_id", u.ID))
	return u, nil
}

// UnlockUser clears a lockout and resets the failed attempt counter.
// Unlocking an unlocked account is a no-op.
func (s *AdminService) UnlockUser(ctx context.Context, userID string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if !u.Locked && u.FailedAttempts == 0 {
		return u, nil
	}

	if err := s.Store.Users().Unlock(ctx, u.ID); err != nil {
		return domain.User{}, err
	}
	u.Locked = false
	u.FailedAttempts = 0

	l.Info("user unlocked", slog.String("user_id", u.ID))
	return u, nil
}

// UpdateUserRole changes a user's role and revokes their sessions so stale
// credentials can't keep the old role. Admins cannot change their own role,
// which also prevents demoting the last admin by accident.
func (s *AdminService) UpdateUserRole(ctx context.Context, actorID, userID, roleName string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if actorID == userID {
		return domain.User{}, ErrSelfDemotion
	}

	role, err := domain.ParseRole(roleName)
	if err != nil {
		return domain.User{}, ErrUnknownRole
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	if u.Role == role {
		return u, nil
	}

	if err := s.Store.Users().SetRole(ctx, u.ID, role); err != nil {
		return domain.User{}, err
	}
	u.Role = role

	if s.Sessions != nil {
		_ = s.Sessions.RevokeAllForUser(ctx, u.ID)
	}

	l.Info("user role changed",
		slog.String("user_id", u.ID),
		slog.String("role", string(role)),
	)
	return u, nil
}

// DeleteUser removes an account and revokes its sessions. Admins cannot
// delete themselves through this path; DeleteAccount covers self-deletion.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	l := slogx.FromContext(ctx)

	if actorID == userID {
		return ErrSelfDeletion
	}

	if s.Sessions != nil {
		if err := s.Sessions.RevokeAllForUser(ctx, userID); err != nil {
			return err
		}
	}

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	l.Info("user deleted", slog.String("user_id", userID))
	return nil
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// ListPendingUsers returns verified accounts awaiting approval.
func (s *AdminService) ListPendingUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListPendingUsers(ctx)
}

// Stats summarizes the account population for the admin dashboard.
func (s *AdminService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.Store.Users().CountStats(ctx)
}
