package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create inserts user atomically, returning domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
