package authgate

import (
	"context"
	"sync"
	"time"
)

// MemoryUserStore is the in-process UserStore. It exists for tests, local
// development, and deployments that accept losing accounts on restart; a
// database-backed store (see BunUserStore) substitutes without touching
// token or hashing logic.
//
// A single mutex serializes creates so two simultaneous signups with the
// same email resolve to exactly one success.
type MemoryUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*User
	nextID  int64
}

// NewMemoryUserStore returns an empty store. IDs start at 1.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail: make(map[string]*User),
		nextID:  1,
	}
}

// Create inserts a new user if the email is not taken. Emails are compared
// case-sensitively, exactly as received.
func (s *MemoryUserStore) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, ErrDuplicateEmail
	}

	now := time.Now()
	user := &User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    &now,
	}
	s.nextID++
	s.byEmail[email] = user

	copied := *user
	return &copied, nil
}

// FindByEmail returns the user for email or ErrIdentityNotFound.
func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, ErrIdentityNotFound
	}

	copied := *user
	return &copied, nil
}

// Len reports how many users the store holds.
func (s *MemoryUserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEmail)
}

var _ UserStore = (*MemoryUserStore)(nil)
