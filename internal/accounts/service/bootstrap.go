package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/store"
	"github.com/assignhub/assignhub/pkg/cryptox"
	"github.com/assignhub/assignhub/pkg/idx"
	"github.com/assignhub/assignhub/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the initial admin account on a fresh deployment.
// The admin is created pre-verified and pre-approved, since there is nobody
// to approve it. Guarded by an optional pre-shared token.
type BootstrapService struct {
	Store store.Store
	Token string // Pre-configured bootstrap token; empty disables the check
}

// IsBootstrapped reports whether any account exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the first admin user. Only works while the user table
// is empty.
func (s *BootstrapService) Bootstrap(
	ctx context.Context,
	token, name, email, password string,
) (string, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	// 1. Check if already bootstrapped
	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return "", err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return "", ErrBootstrapAlready
	}

	// 2. Validate provided token
	if s.Token != "" && token != s.Token {
		l.Warn("unauthorized bootstrap attempt")
		return "", ErrBootstrapUnauthorized
	}

	// 3. Hash password
	passHash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return "", err
	}

	admin := domain.User{
		ID:            idx.New().String(),
		Name:          name,
		Email:         NormalizeEmail(email),
		PasswordHash:  passHash,
		Role:          domain.RoleAdmin,
		EmailVerified: true,
		Approved:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent bootstrap.
			return "", ErrBootstrapAlready
		}
		l.Error("failed to create admin user", slog.Any("error", err))
		return "", err
	}

	l.Info("successfully bootstrapped system", slog.String("admin_user_id", admin.ID))
	return admin.ID, nil
}
