// Package memory provides mutex-guarded in-process stores for local runs
// (STORAGE_DRIVER=memory) and tests. Data does not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/storefront/catalog-api/internal/core/domain"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

// Create checks and inserts under one write lock.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	r.users[user.Username] = &clone
	out := clone
	return &out, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// Ping always succeeds; it lets the store take part in readiness checks.
func (r *UserRepository) Ping(context.Context) error { return nil }
