package authgate_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	authgate "github.com/goliatone/go-authgate"
)

func TestJWTClaims_Accessors(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	expires := issued.Add(time.Hour)

	claims := &authgate.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UID:       "42",
		UserEmail: "user@example.com",
	}

	assert.Equal(t, "42", claims.Subject())
	assert.Equal(t, "42", claims.UserID())
	assert.Equal(t, "user@example.com", claims.Email())
	assert.Equal(t, issued, claims.IssuedAt())
	assert.Equal(t, expires, claims.Expires())
}

func TestJWTClaims_UserIDFallsBackToSubject(t *testing.T) {
	claims := &authgate.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
	}

	assert.Equal(t, "7", claims.UserID())
	assert.Empty(t, claims.Email())
}

func TestJWTClaims_ZeroTimes(t *testing.T) {
	claims := &authgate.JWTClaims{}

	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}

func TestClaimsContext(t *testing.T) {
	claims := &authgate.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
	}

	t.Run("round trips claims", func(t *testing.T) {
		ctx := authgate.WithClaimsContext(context.Background(), claims)

		got, ok := authgate.GetClaims(ctx)
		assert.True(t, ok)
		assert.Equal(t, "42", got.Subject())
	})

	t.Run("missing claims report not ok", func(t *testing.T) {
		got, ok := authgate.GetClaims(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
