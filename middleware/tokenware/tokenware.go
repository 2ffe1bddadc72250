// Package tokenware gates Fiber routes behind bearer token verification.
// It extracts the raw token from the request, hands it to a TokenValidator,
// and either attaches the verified claims to the request or rejects with a
// single uniform "access denied" response. Why the rejection happened
// (missing, malformed, expired) is visible to the error handler for
// logging, never to the client.
package tokenware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	defaultTokenLookup = "header:" + fiber.HeaderAuthorization

	// ErrTokenMissing means no extractor found a token on the request.
	ErrTokenMissing = errors.New("missing authentication token")
	// ErrJWTMissingOrMalformed means a token was present but unusable.
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenValidator interface for validating tokens without import cycles.
// This mirrors the TokenService.Validate method from the authgate package.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims interface for structured claims without import cycles.
// This mirrors the AuthClaims interface from the authgate package.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Expires() time.Time
	IssuedAt() time.Time
}

type Config struct {
	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after claims are stored; defaults to c.Next().
	SuccessHandler fiber.Handler
	// ErrorHandler translates any rejection into a response; the default
	// answers 403 with a body that never reveals the failure mode.
	ErrorHandler fiber.ErrorHandler
	// ContextKey is the Locals key the claims are stored under.
	ContextKey string
	// TokenLookup is a comma list of sources, e.g.
	// "header:Authorization,cookie:token,query:token".
	TokenLookup string
	// AuthScheme is the expected header scheme prefix, default "Bearer".
	AuthScheme string
	// TokenValidator is required for token validation.
	TokenValidator TokenValidator
	// ContextEnricher is an optional function to propagate claims to the
	// standard Go context. If provided, it is called after successful
	// token validation.
	ContextEnricher func(ctx context.Context, claims AuthClaims) context.Context
}

// New builds the middleware handler from cfg.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	extractors := GetExtractors(cfg.TokenLookup, cfg.AuthScheme)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := ExtractRawToken(c, extractors)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return cfg.SuccessHandler(c)
	}
}

// GetDefaultConfig fills in defaults and panics on configurations that can
// never authenticate anything.
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "access denied",
			})
		}
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: token middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

// TokenExtractor pulls a raw token from a request, or reports why it
// could not.
type TokenExtractor func(c *fiber.Ctx) (string, error)

// ExtractRawToken runs the extractor chain and returns the first token
// found. A malformed source wins over plain absence so "Bearer garbage"
// reports malformed, not missing.
func ExtractRawToken(c *fiber.Ctx, extractors []TokenExtractor) (string, error) {
	outcome := error(ErrTokenMissing)

	for _, extractor := range extractors {
		raw, err := extractor(c)
		if raw != "" && err == nil {
			return raw, nil
		}
		if err != nil && !errors.Is(err, ErrTokenMissing) {
			outcome = err
		}
	}

	return "", outcome
}

// GetExtractors parses a TokenLookup expression into an extractor chain.
// Supported sources: header, query, param, cookie.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, tokenFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

// tokenFromHeader returns a function that extracts token from the request header.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		if a == "" {
			return "", ErrTokenMissing
		}

		scheme := strings.TrimSpace(authScheme)
		l := len(scheme)
		if l == 0 {
			return strings.TrimSpace(a), nil
		}

		if len(a) > l+1 && strings.EqualFold(a[:l], scheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// tokenFromQuery returns a function that extracts token from the query string.
func tokenFromQuery(param string) TokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Query(param)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

// tokenFromParam returns a function that extracts token from the url param string.
func tokenFromParam(param string) TokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Params(param)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}

// tokenFromCookie returns a function that extracts token from the named cookie.
func tokenFromCookie(name string) TokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrTokenMissing
		}
		return token, nil
	}
}
