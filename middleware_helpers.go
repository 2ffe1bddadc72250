package authgate

import (
	"context"

	"github.com/goliatone/go-authgate/middleware/tokenware"
)

// TokenwareValidator adapts a TokenService to the middleware validator
// contract. The middleware declares its own mirrored interfaces to avoid
// import cycles, so the token service needs this thin bridge.
func TokenwareValidator(ts TokenService) tokenware.TokenValidator {
	return tokenValidatorAdapter{ts: ts}
}

type tokenValidatorAdapter struct {
	ts TokenService
}

func (a tokenValidatorAdapter) Validate(tokenString string) (tokenware.AuthClaims, error) {
	claims, err := a.ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ContextEnricherAdapter adapts tokenware.AuthClaims to authgate.AuthClaims
// and stores them in the standard context for downstream consumers.
func ContextEnricherAdapter(c context.Context, claims tokenware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}
	return WithClaimsContext(c, authClaims)
}
