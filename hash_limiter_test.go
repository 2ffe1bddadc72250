package authgate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func TestHashLimiter_CompareDummy(t *testing.T) {
	t.Run("waits for a slot like a real comparison", func(t *testing.T) {
		limiter := newHashLimiter(NewBcryptHasher(bcrypt.MinCost), 1)
		require.True(t, limiter.sem.TryAcquire(1))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			limiter.CompareDummy(ctx, "whatever")
			close(done)
		}()

		select {
		case <-done:
			t.Fatal("dummy compare ran without a limiter slot")
		case <-time.After(20 * time.Millisecond):
		}

		cancel()
		<-done
		limiter.sem.Release(1)
	})

	t.Run("releases its slot when done", func(t *testing.T) {
		limiter := newHashLimiter(NewBcryptHasher(bcrypt.MinCost), 1)
		limiter.CompareDummy(context.Background(), "whatever")
		assert.True(t, limiter.sem.TryAcquire(1))
		limiter.sem.Release(1)
	})

	t.Run("no-op for hashers without a dummy hash", func(t *testing.T) {
		limiter := newHashLimiter(fixedHasher{}, 1)
		limiter.CompareDummy(context.Background(), "whatever")
		assert.True(t, limiter.sem.TryAcquire(1))
		limiter.sem.Release(1)
	})
}

type fixedHasher struct{}

func (fixedHasher) HashPassword(password string) (string, error) { return "hash", nil }

func (fixedHasher) ComparePasswordAndHash(password, hash string) error { return nil }

// A login for an unknown email must queue for the same limiter slots as a
// login for a known one; an uncontended miss path would let response
// latency reveal which emails are registered.
func TestGate_LoginUnknownEmailQueuesOnLimiter(t *testing.T) {
	store := NewMemoryUserStore()
	gate := NewGate(store, StaticConfig{
		SigningKey: "test-signing-key",
		BcryptCost: bcrypt.MinCost,
	}).WithLogger(noopLogger{})

	gate.limiter = newHashLimiter(gate.hasher, 1)
	require.True(t, gate.limiter.sem.TryAcquire(1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := gate.Login(ctx, "nobody@example.com", "whatever")
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("unknown-email login completed while the limiter was saturated")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	err := <-done
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	gate.limiter.sem.Release(1)
}
