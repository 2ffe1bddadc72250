package authgate_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	authgate "github.com/goliatone/go-authgate"
)

// MockUserStore implements authgate.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, username, email, passwordHash string) (*authgate.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	if user, ok := args.Get(0).(*authgate.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*authgate.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*authgate.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIdentity implements authgate.Identity
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements authgate.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// discardLogger swallows everything; used where log output is noise.
type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
