package memory

import (
	"context"
	"sync"
	"time"

	"newshub/internal/domain/entity"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*entity.User)}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *UserRepo) UpdateLogin(ctx context.Context, email string, loggedInAt time.Time, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return entity.ErrUserNotFound
	}
	u.LastLoggedIn = loggedInAt
	if role != "" {
		u.Role = role
	}
	return nil
}

func (r *UserRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}
