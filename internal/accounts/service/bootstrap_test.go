package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assignhub/assignhub/internal/accounts/domain"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a ready-to-use admin", func(t *testing.T) {
		env := newTestEnv(t)
		svc := &BootstrapService{Store: env.store, Token: "setup-secret"}

		bootstrapped, err := svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.False(t, bootstrapped)

		adminID, err := svc.Bootstrap(ctx, "setup-secret", "Root Admin", "admin@example.com", "adminpass123")
		require.NoError(t, err)
		require.NotEmpty(t, adminID)

		admin, err := env.store.Users().GetUserByID(ctx, adminID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, admin.Role)
		require.True(t, admin.EmailVerified)
		require.True(t, admin.Approved)

		bootstrapped, err = svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.True(t, bootstrapped)

		// The admin can log in straight away; first login still takes a code.
		env.loginThroughOTP(t, "admin@example.com", "adminpass123")
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		env := newTestEnv(t)
		svc := &BootstrapService{Store: env.store, Token: "setup-secret"}

		_, err := svc.Bootstrap(ctx, "wrong", "Root Admin", "admin@example.com", "adminpass123")
		require.ErrorIs(t, err, ErrBootstrapUnauthorized)
	})

	t.Run("empty configured token disables the check", func(t *testing.T) {
		env := newTestEnv(t)
		svc := &BootstrapService{Store: env.store}

		_, err := svc.Bootstrap(ctx, "", "Root Admin", "admin@example.com", "adminpass123")
		require.NoError(t, err)
	})

	t.Run("only works on an empty system", func(t *testing.T) {
		env := newTestEnv(t)
		svc := &BootstrapService{Store: env.store, Token: "setup-secret"}

		_, err := svc.Bootstrap(ctx, "setup-secret", "Root Admin", "admin@example.com", "adminpass123")
		require.NoError(t, err)

		_, err = svc.Bootstrap(ctx, "setup-secret", "Second Admin", "admin2@example.com", "adminpass123")
		require.ErrorIs(t, err, ErrBootstrapAlready)
	})

	t.Run("any existing account blocks bootstrap", func(t *testing.T) {
		env := newTestEnv(t)
		svc := &BootstrapService{Store: env.store, Token: "setup-secret"}

		_, err := env.accounts.Register(ctx, "Alice", "alice@example.com", "password123", "")
		require.NoError(t, err)

		_, err = svc.Bootstrap(ctx, "setup-secret", "Root Admin", "admin@example.com", "adminpass123")
		require.ErrorIs(t, err, ErrBootstrapAlready)
	})
}
