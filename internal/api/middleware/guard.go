package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

const identityKey = "identity"

// Guard authenticates bearer tokens and enforces the operation policy in
// front of protected handlers.
type Guard struct {
	verifier ports.TokenVerifier
	policy   *domain.Policy
	metrics  *metrics.Metrics
}

func NewGuard(verifier ports.TokenVerifier, policy *domain.Policy, m *metrics.Metrics) *Guard {
	return &Guard{verifier: verifier, policy: policy, metrics: m}
}

// Require protects a route with op. It panics when op has no policy entry so
// a route can never be registered without an access rule.
func (g *Guard) Require(op domain.Operation) echo.MiddlewareFunc {
	if !g.policy.Has(op) {
		panic(fmt.Sprintf("middleware: no policy for operation %q", op))
	}
	label := string(op)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := g.authenticate(c)
			if err != nil {
				g.metrics.ObserveDecision(label, metrics.DecisionUnauthenticated)
				return err
			}
			if err := g.policy.Authorize(op, id); err != nil {
				g.metrics.ObserveDecision(label, metrics.DecisionForbidden)
				return err
			}
			g.metrics.ObserveDecision(label, metrics.DecisionAllowed)

			SetIdentity(c, id)
			return next(c)
		}
	}
}

// Optional verifies a bearer token when one is sent and lets anonymous
// requests through. A present but invalid token is still rejected.
func (g *Guard) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return next(c)
			}
			id, err := g.authenticate(c)
			if err != nil {
				return err
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}

func (g *Guard) authenticate(c echo.Context) (domain.Identity, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing authorization header", domain.ErrInvalidToken)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return domain.Identity{}, fmt.Errorf("%w: invalid authorization header", domain.ErrInvalidToken)
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: empty bearer token", domain.ErrInvalidToken)
	}

	return g.verifier.Verify(token)
}

// SetIdentity stores a verified identity on the request.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by Require or Optional.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}
