package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// decoyPassword is hashed once at construction so that logins for unknown
// usernames pay the same bcrypt cost as logins with a wrong password.
const decoyPassword = "decoy-password-never-assigned"

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	policy   *domain.Policy
	throttle ports.LoginThrottle
	log      zerolog.Logger
	decoy    string
	now      func() time.Time
}

type AuthOption func(*AuthService)

// WithLoginThrottle enables per-username lockout after repeated failures.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	policy *domain.Policy,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if decoy, err := hasher.Hash(decoyPassword); err == nil {
		s.decoy = decoy
	}
	return s
}

// Register creates a new account. Anonymous callers may only create
// CUSTOMER accounts; ADMINISTRATOR accounts require an actor the policy
// allows to register administrators.
func (s *AuthService) Register(ctx context.Context, actor *domain.Identity, in ports.RegisterInput) (*domain.User, error) {
	role, err := validateRegistration(in)
	if err != nil {
		return nil, err
	}

	if role == domain.RoleAdministrator {
		if actor == nil {
			return nil, fmt.Errorf("%w: administrator registration requires authentication", domain.ErrInvalidToken)
		}
		if err := s.policy.Authorize(domain.OpRegisterAdministrator, *actor); err != nil {
			s.log.Warn().Str("actor", actor.Subject).Str("username", in.Username).Msg("administrator registration denied")
			return nil, err
		}
	}

	user, err := s.createUser(ctx, in, role)
	if err != nil {
		return nil, err
	}

	ev := s.log.Info().Str("username", user.Username).Str("role", user.Role.String())
	if actor != nil {
		ev = ev.Str("actor", actor.Subject)
	}
	ev.Msg("user registered")
	return user, nil
}

// BootstrapAdmin creates the initial administrator if it does not exist yet.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, email, password string) error {
	in := ports.RegisterInput{Username: username, Email: email, Password: password, Role: string(domain.RoleAdministrator)}
	if _, err := validateRegistration(in); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	_, err := s.createUser(ctx, in, domain.RoleAdministrator)
	switch {
	case errors.Is(err, domain.ErrUserExists):
		s.log.Debug().Str("username", username).Msg("bootstrap admin already present")
		return nil
	case err != nil:
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.log.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}

func (s *AuthService) createUser(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and issues a session token. Unknown usernames,
// wrong passwords and locked accounts all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.IssuedToken, *domain.User, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	if s.locked(ctx, username) {
		s.hasher.Verify(password, s.decoy)
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, fmt.Errorf("login: %w", err)
		}
		s.hasher.Verify(password, s.decoy)
		s.recordFailure(ctx, username)
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, username)
		return nil, nil, domain.ErrInvalidCredentials
	}
	s.resetFailures(ctx, username)

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("username", user.Username).Time("expires_at", token.ExpiresAt).Msg("login succeeded")
	return token, user, nil
}

// Me returns the stored account behind a verified identity.
func (s *AuthService) Me(ctx context.Context, id domain.Identity) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, id.Subject)
}

func (s *AuthService) locked(ctx context.Context, username string) bool {
	if s.throttle == nil {
		return false
	}
	locked, err := s.throttle.Locked(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		return false
	}
	if locked {
		s.log.Warn().Str("username", username).Msg("login rejected: too many failed attempts")
	}
	return locked
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) resetFailures(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login failures")
	}
}
