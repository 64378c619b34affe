package repository

import (
	"context"
	"time"

	"newshub/internal/domain/entity"
)

// UserRepository is the document-store contract for users, keyed by email.
type UserRepository interface {
	// FindByEmail returns the user with the given email, or
	// entity.ErrUserNotFound if none exists.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	// UpdateLogin records a login for an existing user. A non-empty role
	// also replaces the stored role.
	UpdateLogin(ctx context.Context, email string, loggedInAt time.Time, role string) error
	CountAll(ctx context.Context) (int64, error)
}
