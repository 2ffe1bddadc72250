package authgate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	authgate "github.com/goliatone/go-authgate"
)

func TestBcryptHasher_HashPassword(t *testing.T) {
	hasher := authgate.NewBcryptHasher(bcrypt.MinCost)

	t.Run("hashes a password", func(t *testing.T) {
		hash, err := hasher.HashPassword("sekret")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "sekret", hash)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.HashPassword("")
		assert.ErrorIs(t, err, authgate.ErrNoEmptyPassword)
	})

	t.Run("salts every call independently", func(t *testing.T) {
		first, err := hasher.HashPassword("same-input")
		require.NoError(t, err)

		second, err := hasher.HashPassword("same-input")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestBcryptHasher_ComparePasswordAndHash(t *testing.T) {
	hasher := authgate.NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	t.Run("matches the original password", func(t *testing.T) {
		assert.NoError(t, hasher.ComparePasswordAndHash("correct horse battery staple", hash))
	})

	t.Run("rejects a different password", func(t *testing.T) {
		err := hasher.ComparePasswordAndHash("correct horse battery stale", hash)
		assert.ErrorIs(t, err, authgate.ErrMismatchedHashAndPassword)
	})

	t.Run("rejects a malformed stored hash without panicking", func(t *testing.T) {
		err := hasher.ComparePasswordAndHash("whatever", "not-a-bcrypt-hash")
		assert.ErrorIs(t, err, authgate.ErrMismatchedHashAndPassword)
	})

	t.Run("rejects an empty stored hash", func(t *testing.T) {
		err := hasher.ComparePasswordAndHash("whatever", "")
		assert.ErrorIs(t, err, authgate.ErrMismatchedHashAndPassword)
	})
}

func TestNewBcryptHasher_CostClamping(t *testing.T) {
	// The clamped value depends on the build (race builds lower it), so we
	// assert range membership and consistency rather than a literal.
	fallback := authgate.NewBcryptHasher(0).Cost()

	t.Run("out of range costs clamp to the package default", func(t *testing.T) {
		assert.GreaterOrEqual(t, fallback, bcrypt.MinCost)
		assert.LessOrEqual(t, fallback, bcrypt.MaxCost)
		assert.Equal(t, fallback, authgate.NewBcryptHasher(-3).Cost())
		assert.Equal(t, fallback, authgate.NewBcryptHasher(bcrypt.MaxCost+1).Cost())
	})

	t.Run("valid cost kept", func(t *testing.T) {
		assert.Equal(t, bcrypt.MinCost, authgate.NewBcryptHasher(bcrypt.MinCost).Cost())
	})
}
