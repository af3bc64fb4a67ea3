package ports

import "github.com/storefront/catalog-api/internal/core/domain"

// PasswordHasher produces salted one-way digests and checks plaintexts against them.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. Malformed digests yield false.
	Verify(plaintext, digest string) bool
}

// TokenIssuer mints signed session tokens.
type TokenIssuer interface {
	Issue(subject string, role domain.Role) (*domain.IssuedToken, error)
}

// TokenVerifier checks a presented token and returns the identity it asserts.
// Every rejection wraps domain.ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

type TokenService interface {
	TokenIssuer
	TokenVerifier
}
