package service

import (
	"context"
	"errors"
	"strings"

	"github.com/assignhub/assignhub/internal/accounts/domain"
	"github.com/assignhub/assignhub/internal/accounts/store"
)

// UserService covers self-service profile operations.
type UserService struct {
	Store store.Store
}

// GetUserByID fetches an account.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// UpdateName changes a user's display name and returns the updated account.
func (s *UserService) UpdateName(ctx context.Context, userID, name string) (domain.User, error) {
	name = strings.TrimSpace(name)

	if err := s.Store.Users().UpdateName(ctx, userID, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	return s.GetUserByID(ctx, userID)
}
