package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// RegisterInput carries the registration fields. An empty Role means CUSTOMER.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	// Register creates a user. actor is the authenticated caller, or nil for
	// anonymous self-registration.
	Register(ctx context.Context, actor *domain.Identity, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.IssuedToken, *domain.User, error)
	Me(ctx context.Context, id domain.Identity) (*domain.User, error)
}
