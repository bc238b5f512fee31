package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/mock"

	"jupiter/internal/auth"
	"jupiter/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockAuthenticator is a mock implementation of Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, email, password string) (*auth.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Identity), args.Error(1)
}

// stubVerifier counts calls and answers from a fixed table of password -> hash matches.
type stubVerifier struct {
	calls  int
	hashes []string
	err   error
	match map[string]string
}

func (v *stubVerifier) Verify(password, hash string) (bool, error) {
	v.calls++
	v.hashes = append(v.hashes, hash)
	if v.err != nil {
		return false, v.err
	}
	return v.match[password] == hash, nil
}

func discardLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func bufferLogger(level log.Lvl) (*log.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := log.New("test")
	l.SetOutput(buf)
	l.SetLevel(level)
	return l, buf
}
