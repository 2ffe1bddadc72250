package authgate

import (
	"context"
	"runtime"

	"github.com/goliatone/go-errors"
	"golang.org/x/sync/semaphore"
)

// hashLimiter caps concurrent bcrypt jobs so a burst of signups cannot
// occupy every scheduler thread. Jobs are not cancellable once started;
// the context is only consulted while waiting for a slot.
type hashLimiter struct {
	hasher PasswordHasher
	sem    *semaphore.Weighted
}

func newHashLimiter(hasher PasswordHasher, slots int64) *hashLimiter {
	if slots <= 0 {
		slots = int64(runtime.GOMAXPROCS(0))
	}
	return &hashLimiter{
		hasher: hasher,
		sem:    semaphore.NewWeighted(slots),
	}
}

func (l *hashLimiter) Hash(ctx context.Context, password string) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, errors.CategoryOperation, "hash slot acquisition aborted")
	}
	defer l.sem.Release(1)

	return l.hasher.HashPassword(password)
}

func (l *hashLimiter) Compare(ctx context.Context, password, hash string) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "hash slot acquisition aborted")
	}
	defer l.sem.Release(1)

	return l.hasher.ComparePasswordAndHash(password, hash)
}

// dummyComparer is implemented by hashers that can burn a comparison
// against a fixed hash for timing equalization.
type dummyComparer interface {
	compareDummy(password string)
}

// CompareDummy runs a throwaway comparison under the same slot discipline
// as Compare: a store miss pays both the queue wait and the bcrypt cost a
// real comparison would, and a burst of misses stays under the cap.
func (l *hashLimiter) CompareDummy(ctx context.Context, password string) {
	dc, ok := l.hasher.(dummyComparer)
	if !ok {
		return
	}

	if err := l.sem.Acquire(ctx, 1); err != nil {
		return
	}
	defer l.sem.Release(1)

	dc.compareDummy(password)
}
