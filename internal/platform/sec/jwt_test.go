// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKey(key, issuer)
}

/*
TestTokenService_RoundTrip issues and verifies an access token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	tokens := newTokenService(t, "yamdb")

	signed, err := tokens.GenerateAccessToken("user-1", "alice", time.Hour)
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenService_Expired(t *testing.T) {
	tokens := newTokenService(t, "yamdb")

	signed, err := tokens.GenerateAccessToken("user-1", "alice", -time.Minute)
	require.NoError(t, err)

	_, err = tokens.VerifyToken(signed)
	assert.Error(t, err)
}

/*
TestTokenService_ForeignKey rejects tokens from another signer.
*/
func TestTokenService_ForeignKey(t *testing.T) {
	tokens := newTokenService(t, "yamdb")

	foreign := newTokenService(t, "yamdb")
	signed, err := foreign.GenerateAccessToken("user-1", "alice", time.Hour)
	require.NoError(t, err)
	_, err = tokens.VerifyToken(signed)
	assert.Error(t, err)

	_, err = tokens.VerifyToken("not-a-token")
	assert.Error(t, err)
}
