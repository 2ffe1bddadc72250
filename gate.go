package authgate

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
)

// Gate orchestrates the three authentication flows: signup, login, and
// protected access. It owns no state beyond its collaborators; every
// request is handled independently.
type Gate struct {
	store        UserStore
	hasher       PasswordHasher
	limiter      *hashLimiter
	tokenService TokenService
	logger       Logger
}

// NewGate returns a Gate wired from cfg: a bcrypt hasher at the configured
// cost, a token service over the configured signing key and TTL, and the
// given store as the identity source of truth.
func NewGate(store UserStore, cfg Config) *Gate {
	hasher := NewBcryptHasher(cfg.GetBcryptCost())

	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenTTL(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	return &Gate{
		store:        store,
		hasher:       hasher,
		limiter:      newHashLimiter(hasher, 0),
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (g *Gate) WithLogger(logger Logger) *Gate {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// WithTokenService swaps the token service, mostly for tests and for
// deployments that need custom issuer or audience handling.
func (g *Gate) WithTokenService(ts TokenService) *Gate {
	if ts != nil {
		g.tokenService = ts
	}
	return g
}

// WithHasher swaps the password hasher.
func (g *Gate) WithHasher(hasher PasswordHasher) *Gate {
	if hasher != nil {
		g.hasher = hasher
		g.limiter = newHashLimiter(hasher, 0)
	}
	return g
}

// TokenService returns the TokenService instance used by this Gate
func (g *Gate) TokenService() TokenService {
	return g.tokenService
}

// Signup validates the triple, hashes the password, and creates the user.
// The store's atomic insert is the uniqueness authority; there is no
// read-then-write window for racing signups to slip through.
func (g *Gate) Signup(ctx context.Context, username, email, password string) (*User, error) {
	if err := validateSignupInput(username, email, password); err != nil {
		return nil, err
	}

	hash, err := g.limiter.Hash(ctx, password)
	if err != nil {
		g.logger.Error("Signup failed to hash password", "error", err)
		return nil, err
	}

	user, err := g.store.Create(ctx, username, email, hash)
	if err != nil {
		if IsDuplicateEmail(err) {
			g.logger.Info("Signup rejected duplicate email", "email", email)
			return nil, ErrDuplicateEmail
		}
		g.logger.Error("Signup store create failed", "error", err)
		return nil, err
	}

	g.logger.Info("Signup created user", "id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies the credentials and mints a token. Unknown email and
// wrong password converge on the same ErrInvalidCredentials, and a lookup
// miss still pays for a bcrypt comparison so the two paths cost the same.
func (g *Gate) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := g.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			g.equalizeTiming(ctx, password)
			g.logger.Info("Login rejected unknown email")
			return "", ErrInvalidCredentials
		}
		g.logger.Error("Login store lookup failed", "error", err)
		return "", err
	}

	if err := g.limiter.Compare(ctx, password, user.PasswordHash); err != nil {
		g.logger.Info("Login rejected bad password", "id", user.ID)
		return "", ErrInvalidCredentials
	}

	token, err := g.tokenService.Generate(user.Identity())
	if err != nil {
		g.logger.Error("Login failed to sign token", "error", err)
		return "", err
	}

	return token, nil
}

// Authorize resolves a raw bearer token into verified claims. An empty
// token is a distinct ErrTokenMissing so operators can tell "no header"
// apart from "bad token" in logs; clients see one uniform denial.
func (g *Gate) Authorize(raw string) (AuthClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenMissing
	}

	claims, err := g.tokenService.Validate(raw)
	if err != nil {
		g.logger.Info("Authorize rejected token", "error", err)
		return nil, err
	}

	return claims, nil
}

// equalizeTiming goes through the limiter so the miss path and the hit
// path share one queue; skipping it would make contention latency an
// account-existence signal.
func (g *Gate) equalizeTiming(ctx context.Context, password string) {
	g.limiter.CompareDummy(ctx, password)
}

func validateSignupInput(username, email, password string) error {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(email) == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}

	if len(missing) > 0 {
		return errors.New("missing required fields", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"fields": missing})
	}

	return nil
}

var _ Authenticator = (*Gate)(nil)
