package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/api/middleware"
	"github.com/storefront/catalog-api/internal/core/domain"
)

// requireIdentity returns the identity the guard stored on the request.
// A missing identity means the route was wired without the guard; it is
// reported as unauthenticated rather than served anonymously.
func requireIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.Subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing identity", domain.ErrInvalidToken)
	}
	return id, nil
}

// optionalIdentity returns the caller identity if one was verified.
func optionalIdentity(c echo.Context) *domain.Identity {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil
	}
	return &id
}
