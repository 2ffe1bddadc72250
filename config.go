package authgate

import "time"

// StaticConfig is a value implementation of Config for tests and for
// callers that already resolved their configuration elsewhere.
type StaticConfig struct {
	SigningKey  string
	TokenTTL    time.Duration
	Issuer      string
	Audience    []string
	ContextKey  string
	AuthScheme  string
	TokenLookup string
	BcryptCost  int
}

func (c StaticConfig) GetSigningKey() string { return c.SigningKey }

func (c StaticConfig) GetTokenTTL() time.Duration {
	if c.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return c.TokenTTL
}

func (c StaticConfig) GetIssuer() string { return c.Issuer }

func (c StaticConfig) GetAudience() []string { return c.Audience }

func (c StaticConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return "user"
	}
	return c.ContextKey
}

func (c StaticConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}

func (c StaticConfig) GetTokenLookup() string {
	if c.TokenLookup == "" {
		return "header:Authorization"
	}
	return c.TokenLookup
}

func (c StaticConfig) GetBcryptCost() int { return c.BcryptCost }

var _ Config = StaticConfig{}
