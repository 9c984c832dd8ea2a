// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newGenerator(t *testing.T, ttl time.Duration) (*sec.CodeGenerator, *fakeClock) {
	t.Helper()
	key, err := sec.DeriveKey("a-very-long-session-secret-for-tests", sec.PurposeConfirmationCode)
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	return sec.NewCodeGenerator(key, ttl).WithClock(clock.Now), clock
}

func sampleState() sec.CodeState {
	return sec.CodeState{
		UserID:    "0192b1f0-0000-7000-8000-000000000001",
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      sec.RoleUser,
		UpdatedAt: time.Date(2026, 5, 1, 11, 0, 0, 123456789, time.UTC),
	}
}

/*
TestCodeGenerator_RoundTrip checks a fresh code verifies against the same state.
*/
func TestCodeGenerator_RoundTrip(t *testing.T) {
	generator, _ := newGenerator(t, time.Hour)
	state := sampleState()

	code := generator.Make(state)
	assert.Contains(t, code, "-")
	assert.True(t, generator.Check(state, code))
}

/*
TestCodeGenerator_StateChangeInvalidates covers every field the code is bound to.
*/
func TestCodeGenerator_StateChangeInvalidates(t *testing.T) {
	generator, _ := newGenerator(t, time.Hour)
	state := sampleState()
	code := generator.Make(state)

	login := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mutations := map[string]func(*sec.CodeState){
		"email":      func(s *sec.CodeState) { s.Email = "other@example.com" },
		"username":   func(s *sec.CodeState) { s.Username = "alice2" },
		"role":       func(s *sec.CodeState) { s.Role = sec.RoleModerator },
		"staff":      func(s *sec.CodeState) { s.IsStaff = true },
		"superuser":  func(s *sec.CodeState) { s.IsSuperuser = true },
		"last_login": func(s *sec.CodeState) { s.LastLogin = &login },
		"updated_at": func(s *sec.CodeState) { s.UpdatedAt = s.UpdatedAt.Add(time.Second) },
		"user_id":    func(s *sec.CodeState) { s.UserID = "someone-else" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			mutated := sampleState()
			mutate(&mutated)
			assert.False(t, generator.Check(mutated, code))
		})
	}
}

/*
TestCodeGenerator_SubMicrosecondIgnored keeps codes valid across a database
round trip that truncates nanoseconds.
*/
func TestCodeGenerator_SubMicrosecondIgnored(t *testing.T) {
	generator, _ := newGenerator(t, time.Hour)
	state := sampleState()
	code := generator.Make(state)

	state.UpdatedAt = state.UpdatedAt.Truncate(time.Microsecond)
	assert.True(t, generator.Check(state, code))
}

/*
TestCodeGenerator_Expiry checks the window boundary.
*/
func TestCodeGenerator_Expiry(t *testing.T) {
	generator, clock := newGenerator(t, time.Hour)
	state := sampleState()
	code := generator.Make(state)

	clock.now = clock.now.Add(time.Hour)
	assert.True(t, generator.Check(state, code))
	assert.Equal(t, time.Duration(0), generator.Remaining(code))

	clock.now = clock.now.Add(time.Second)
	assert.False(t, generator.Check(state, code))
}

func TestCodeGenerator_Remaining(t *testing.T) {
	generator, clock := newGenerator(t, time.Hour)
	code := generator.Make(sampleState())

	clock.now = clock.now.Add(20 * time.Minute)
	assert.Equal(t, 40*time.Minute, generator.Remaining(code))
	assert.Equal(t, time.Duration(0), generator.Remaining("garbage"))
}

/*
TestCodeGenerator_Malformed rejects anything not produced by Make.
*/
func TestCodeGenerator_Malformed(t *testing.T) {
	generator, _ := newGenerator(t, time.Hour)
	state := sampleState()
	code := generator.Make(state)
	prefix, digest, _ := strings.Cut(code, "-")

	for _, bad := range []string{
		"",
		"-",
		digest,
		prefix + "-",
		prefix + "-" + digest[:10],
		"!!-" + digest,
		prefix + "-" + strings.Repeat("0", len(digest)),
	} {
		assert.False(t, generator.Check(state, bad), bad)
	}
}

/*
TestCodeGenerator_KeyIsolation ensures a different secret yields different codes.
*/
func TestCodeGenerator_KeyIsolation(t *testing.T) {
	generator, _ := newGenerator(t, time.Hour)
	otherKey, err := sec.DeriveKey("another-very-long-session-secret!!", sec.PurposeConfirmationCode)
	require.NoError(t, err)
	other := sec.NewCodeGenerator(otherKey, time.Hour)

	state := sampleState()
	assert.False(t, other.Check(state, generator.Make(state)))
}
