// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Key purposes for [DeriveKey].
const (
	PurposeConfirmationCode = "yamdb/confirmation-code/v1"
)

// DeriveKey expands the process secret into a 32-byte key scoped to purpose,
// so one configured secret never signs two kinds of artifact.
func DeriveKey(secret, purpose string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: empty secret")
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("sec: key derivation failed: %w", err)
	}

	return key, nil
}

// HashCode returns the SHA-256 hex digest of a confirmation code. It is used
// as the storage key for single-use markers so raw codes are never persisted.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
