package authgate

import (
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// User is the identity record owned by the UserStore. IDs are assigned by
// the store, unique and monotonically increasing from 1. Records are never
// mutated or deleted once created.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Username      string     `bun:"username,notnull" json:"username"`
	Email         string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// PublicUser is the client-safe projection of a User. The password hash
// never leaves the store boundary in any response shape.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the projection of u that is safe to serialize to clients.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// Identity interface implementation so a User can be handed straight to
// the token service.
func (u *User) Identity() Identity {
	return userIdentity{
		id:       strconv.FormatInt(u.ID, 10),
		username: u.Username,
		email:    u.Email,
	}
}

type userIdentity struct {
	id       string
	username string
	email    string
}

func (a userIdentity) ID() string       { return a.id }
func (a userIdentity) Username() string { return a.username }
func (a userIdentity) Email() string    { return a.email }

var _ Identity = userIdentity{}
