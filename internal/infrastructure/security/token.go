package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storefront/catalog-api/internal/core/domain"
)

const (
	// MinSecretLength is the shortest signing key accepted, in bytes.
	MinSecretLength = 32

	defaultTokenTTL = 24 * time.Hour
	defaultIssuer   = "catalog-api"
)

var ErrWeakSecret = errors.New("jwt secret too short")

// sessionClaims is the fixed claim set carried by every session token.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 session tokens. It holds only
// immutable configuration and is safe for concurrent use.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

type Option func(*JWTService)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

func WithIssuer(issuer string) Option {
	return func(s *JWTService) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

// NewJWTService builds a token service. A non-positive ttl falls back to 24h.
func NewJWTService(secret []byte, ttl time.Duration, opts ...Option) (*JWTService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrWeakSecret, MinSecretLength)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	s := &JWTService{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(s.issuer),
		// exp itself is still valid; jwt compares now < exp+leeway.
		jwt.WithLeeway(time.Nanosecond),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

func (s *JWTService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject with a snapshot of role.
func (s *JWTService) Issue(subject string, role domain.Role) (*domain.IssuedToken, error) {
	if subject == "" {
		return nil, errors.New("issue token: empty subject")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("issue token: unknown role %q", role)
	}

	// Claims carry whole seconds; truncate so the returned times match them.
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.ttl)

	claims := sessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &domain.IssuedToken{
		Token:     signed,
		Subject:   subject,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks structure, signature, issuer and expiry. A token is valid
// up to and including its exp instant and rejected once now is past it.
func (s *JWTService) Verify(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: empty token", domain.ErrInvalidToken)
	}

	var claims sessionClaims
	parsed, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	if claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Identity{}, fmt.Errorf("%w: unknown role", domain.ErrInvalidToken)
	}

	return domain.Identity{Subject: claims.Subject, Role: role}, nil
}
