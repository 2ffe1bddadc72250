package authgate_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	authgate "github.com/goliatone/go-authgate"
)

func newTestBunStore(t *testing.T) *authgate.BunUserStore {
	t.Helper()

	// A private in-memory database per test; the single connection keeps
	// it alive for the test's lifetime.
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	store := authgate.NewBunUserStore(db).WithLogger(discardLogger{})
	require.NoError(t, store.ResetModel(context.Background()))

	return store
}

func TestBunUserStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := newTestBunStore(t)

	created, err := store.Create(ctx, "ada", "ada@example.com", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	found, err := store.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "ada", found.Username)
	assert.Equal(t, "hash-1", found.PasswordHash)

	second, err := store.Create(ctx, "grace", "grace@example.com", "hash-2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestBunUserStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := newTestBunStore(t)

	_, err := store.Create(ctx, "ada", "a@x.com", "hash-1")
	require.NoError(t, err)

	_, err = store.Create(ctx, "grace", "a@x.com", "hash-2")
	assert.ErrorIs(t, err, authgate.ErrDuplicateEmail)
}

func TestBunUserStore_FindByEmailMiss(t *testing.T) {
	ctx := context.Background()
	store := newTestBunStore(t)

	_, err := store.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, authgate.ErrIdentityNotFound)
}
