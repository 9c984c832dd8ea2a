// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// # In-memory user repository

type memoryUsers struct {
	mu              sync.Mutex
	byID            map[string]*auth.User
	createErr       error
	freezeLastLogin bool
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[string]*auth.User)}
}

func (m *memoryUsers) copyOf(user *auth.User) *auth.User {
	clone := *user
	return &clone
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.byID[id]; ok {
		return m.copyOf(user), nil
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) find(match func(*auth.User) bool) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byID {
		if match(user) {
			return m.copyOf(user), nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Email == email })
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return m.find(func(u *auth.User) bool { return u.Username == username })
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Username == user.Username {
			return uniqueViolation(schema.UserAccount.UniqueUsername)
		}
		if existing.Email == user.Email {
			return uniqueViolation(schema.UserAccount.UniqueEmail)
		}
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	user.CreatedAt, user.UpdatedAt = now, now
	m.byID[user.ID] = m.copyOf(user)
	return nil
}

func (m *memoryUsers) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return apperr.NotFound("User")
	}
	if !m.freezeLastLogin {
		at = at.Truncate(time.Microsecond)
		user.LastLoginAt = &at
	}
	return nil
}

// mutate edits a stored account the way a profile update would.
func (m *memoryUsers) mutate(id string, change func(*auth.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := m.byID[id]
	change(user)
	user.UpdatedAt = user.UpdatedAt.Add(time.Millisecond)
}

func uniqueViolation(constraint string) error {
	return dberr.Wrap(&pgconn.PgError{Code: "23505", ConstraintName: constraint}, "User")
}

// # Used code store

type memoryUsedCodes struct {
	mu   sync.Mutex
	used map[string]time.Duration
}

func newMemoryUsedCodes() *memoryUsedCodes {
	return &memoryUsedCodes{used: make(map[string]time.Duration)}
}

func (m *memoryUsedCodes) Claim(_ context.Context, codeHash string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.used[codeHash]; ok {
		return false, nil
	}
	m.used[codeHash] = ttl
	return true, nil
}

// # Mailer mock

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, message mail.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// lastCode extracts the confirmation code from the most recent message.
func (m *mockMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.Calls)
	message := m.Calls[len(m.Calls)-1].Arguments.Get(1).(mail.Message)

	const marker = "Your confirmation code: "
	start := strings.Index(message.Body, marker)
	require.GreaterOrEqual(t, start, 0)
	rest := message.Body[start+len(marker):]
	return strings.TrimSpace(rest[:strings.Index(rest, "\n")])
}

// # Fixture

type fixture struct {
	users     *memoryUsers
	usedCodes *memoryUsedCodes
	mailer    *mockMailer
	tokens    *sec.TokenService
	codes     *sec.CodeGenerator
	clock     *time.Time
	service   *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	codeKey, err := sec.DeriveKey("a-session-secret-that-is-long-enough", sec.PurposeConfirmationCode)
	require.NoError(t, err)

	clock := time.Now()
	f := &fixture{
		users:     newMemoryUsers(),
		usedCodes: newMemoryUsedCodes(),
		mailer:    &mockMailer{},
		tokens:    sec.NewTokenServiceFromKey(key, "yamdb"),
		clock:     &clock,
	}
	f.codes = sec.NewCodeGenerator(codeKey, time.Hour).WithClock(func() time.Time { return *f.clock })
	f.service = auth.NewService(f.users, f.usedCodes, f.mailer, f.codes, f.tokens, 24*time.Hour, discardLogger())
	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
