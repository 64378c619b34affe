// Package user implements user login bookkeeping and role lookup. These are
// thin pass-throughs to the user store, kept as a use case so the handlers
// stay transport-only.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

// LoginInput carries the profile data sent by the client on login.
type LoginInput struct {
	Email    string
	Name     string
	PhotoURL string
	Role     string
}

// Service provides user management use cases.
type Service struct {
	Repo repository.UserRepository

	// RoleOverrides maps emails to roles forced on every login, used to
	// pin well-known operator accounts to fixed roles.
	RoleOverrides map[string]string

	// Now is the clock used for login timestamps; defaults to time.Now.
	Now func() time.Time
}

// RecordLogin upserts the user by email: first login creates the record with
// the supplied profile and a default role of "reader", subsequent logins only
// refresh last_loggedIn (and the role when an override applies).
// It reports whether a new user was created.
func (s *Service) RecordLogin(ctx context.Context, in LoginInput) (created bool, err error) {
	if in.Email == "" {
		return false, entity.ErrEmailRequired
	}
	now := s.now()
	override := s.RoleOverrides[in.Email]

	_, err = s.Repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if err := s.Repo.UpdateLogin(ctx, in.Email, now, override); err != nil {
			return false, fmt.Errorf("update login: %w", err)
		}
		return false, nil
	case errors.Is(err, entity.ErrUserNotFound):
		role := in.Role
		if role == "" {
			role = entity.RoleReader
		}
		if override != "" {
			role = override
		}
		u := &entity.User{
			Email:        in.Email,
			Name:         in.Name,
			PhotoURL:     in.PhotoURL,
			Role:         role,
			CreatedAt:    now,
			LastLoggedIn: now,
		}
		if err := s.Repo.Create(ctx, u); err != nil {
			return false, fmt.Errorf("create user: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("find user: %w", err)
	}
}

// RoleOf returns the stored role for the given email, or "" when the user
// does not exist.
func (s *Service) RoleOf(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", nil
	}
	u, err := s.Repo.FindByEmail(ctx, email)
	if errors.Is(err, entity.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	return u.Role, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
