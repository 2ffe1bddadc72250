package authgate

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// BunUserStore persists users through a bun.DB. Email uniqueness is
// enforced by the UNIQUE column, so concurrent creates race inside the
// database and exactly one wins regardless of process count.
type BunUserStore struct {
	db     *bun.DB
	logger Logger
}

// NewBunUserStore wraps db as a UserStore.
func NewBunUserStore(db *bun.DB) *BunUserStore {
	return &BunUserStore{
		db:     db,
		logger: defLogger{},
	}
}

func (s *BunUserStore) WithLogger(logger Logger) *BunUserStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Create inserts the record and maps the unique constraint violation to
// ErrDuplicateEmail. The database assigns the monotonic id.
func (s *BunUserStore) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}

	res, err := s.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	if user.ID == 0 {
		if id, err := res.LastInsertId(); err == nil {
			user.ID = id
		}
	}

	return user, nil
}

// FindByEmail looks up a user by exact email match.
func (s *BunUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := s.db.NewSelect().
		Model(user).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to find user by email")
	}

	return user, nil
}

// ResetModel creates the users table if needed. Intended for the server
// binary bootstrap and tests; production schemas belong to migrations.
func (s *BunUserStore) ResetModel(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}
	return nil
}

// isUniqueViolation matches the constraint error text of the dialects we
// run against (sqlite and postgres).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "23505")
}

var _ UserStore = (*BunUserStore)(nil)
