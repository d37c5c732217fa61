// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"strings"

	"habitstreak/internal/domain"
)

// ErrNoRemoteUser indicates the request carried no upstream identity.
var ErrNoRemoteUser = errors.New("no remote user")

// UserService maps upstream identities to local users.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a UserService backed by the given repository.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// Resolve returns the user for a username asserted by the fronting proxy,
// creating it on first sight.
func (s *UserService) Resolve(ctx context.Context, remoteUser string) (*domain.User, error) {
	remoteUser = strings.TrimSpace(remoteUser)
	if remoteUser == "" {
		return nil, ErrNoRemoteUser
	}

	user, err := s.users.GetByUsername(ctx, remoteUser)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.Create(ctx, remoteUser)
	if err != nil {
		// Lost a race with a concurrent first request; the row exists now.
		if existing, getErr := s.users.GetByUsername(ctx, remoteUser); getErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return user, nil
}
