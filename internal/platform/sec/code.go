// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// codeDigestLength is the number of hex characters kept from the HMAC.
const codeDigestLength = 32

// CodeState is the account state a confirmation code is bound to.
//
// Any change to these fields between issuance and redemption invalidates the
// code, so no revocation store is needed.
type CodeState struct {
	UserID      string
	Username    string
	Email       string
	Role        Role
	IsStaff     bool
	IsSuperuser bool
	LastLogin   *time.Time
	UpdatedAt   time.Time
}

// CodeGenerator issues and checks state-bound, time-limited confirmation codes.
//
// Format: base36(issued unix seconds) "-" hex(HMAC-SHA256(key, state, issued)).
type CodeGenerator struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodeGenerator creates a generator whose codes expire after ttl.
func NewCodeGenerator(key []byte, ttl time.Duration) *CodeGenerator {
	return &CodeGenerator{key: key, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (generator *CodeGenerator) WithClock(now func() time.Time) *CodeGenerator {
	generator.now = now
	return generator
}

// TTL returns the configured validity window.
func (generator *CodeGenerator) TTL() time.Duration {
	return generator.ttl
}

// Make returns a fresh code for state.
func (generator *CodeGenerator) Make(state CodeState) string {
	issuedAt := generator.now().Unix()
	return strconv.FormatInt(issuedAt, 36) + "-" + generator.digest(state, issuedAt)
}

// Check reports whether code was issued for exactly this state and is still
// within the validity window.
func (generator *CodeGenerator) Check(state CodeState, code string) bool {
	issuedAt, digest, ok := splitCode(code)
	if !ok {
		return false
	}

	expected := generator.digest(state, issuedAt)
	if !hmac.Equal([]byte(expected), []byte(digest)) {
		return false
	}

	age := generator.now().Sub(time.Unix(issuedAt, 0))
	return age <= generator.ttl
}

// Remaining returns how long a well-formed code stays valid, or zero.
func (generator *CodeGenerator) Remaining(code string) time.Duration {
	issuedAt, _, ok := splitCode(code)
	if !ok {
		return 0
	}
	left := time.Unix(issuedAt, 0).Add(generator.ttl).Sub(generator.now())
	if left < 0 {
		return 0
	}
	return left
}

// digest computes the truncated HMAC over the serialized state.
func (generator *CodeGenerator) digest(state CodeState, issuedAt int64) string {
	mac := hmac.New(sha256.New, generator.key)
	mac.Write([]byte(serializeState(state)))
	mac.Write([]byte{0})
	mac.Write([]byte(strconv.FormatInt(issuedAt, 10)))
	return hex.EncodeToString(mac.Sum(nil))[:codeDigestLength]
}

// serializeState flattens state into a stable string.
//
// Timestamps are reduced to microseconds, the precision PostgreSQL stores.
func serializeState(state CodeState) string {
	lastLogin := ""
	if state.LastLogin != nil {
		lastLogin = strconv.FormatInt(state.LastLogin.UnixMicro(), 10)
	}

	return strings.Join([]string{
		state.UserID,
		state.Username,
		state.Email,
		string(state.Role),
		strconv.FormatBool(state.IsStaff),
		strconv.FormatBool(state.IsSuperuser),
		lastLogin,
		strconv.FormatInt(state.UpdatedAt.UnixMicro(), 10),
	}, "\x00")
}

// splitCode parses "<base36 ts>-<hex digest>".
func splitCode(code string) (int64, string, bool) {
	rawTime, digest, found := strings.Cut(code, "-")
	if !found || rawTime == "" || len(digest) != codeDigestLength {
		return 0, "", false
	}

	issuedAt, err := strconv.ParseInt(rawTime, 36, 64)
	if err != nil || issuedAt <= 0 {
		return 0, "", false
	}

	return issuedAt, digest, true
}
