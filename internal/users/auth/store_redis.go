// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// minimumClaimTTL keeps a marker alive for codes about to expire.
const minimumClaimTTL = time.Second

// RedisUsedCodeRepository implements [UsedCodeRepository] with SET NX.
type RedisUsedCodeRepository struct {
	client *redis.Client
}

// NewUsedCodeRepository creates a Redis-backed [UsedCodeRepository].
func NewUsedCodeRepository(client *redis.Client) *RedisUsedCodeRepository {
	return &RedisUsedCodeRepository{client: client}
}

/*
Claim stores a marker under the code hash only if none exists.

Parameters:
  - context: context.Context
  - codeHash: string (sha256 hex of the code)
  - ttl: time.Duration (remaining validity of the code)

Returns:
  - bool: true if this call claimed the code
  - error: Execution errors
*/
func (repository *RedisUsedCodeRepository) Claim(context context.Context, codeHash string, ttl time.Duration) (bool, error) {
	if ttl < minimumClaimTTL {
		ttl = minimumClaimTTL
	}

	key := constants.RedisPrefixUsedCode + codeHash

	claimed, err := repository.client.SetNX(context, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_used_code_claim_failed: %w", err)
	}

	return claimed, nil
}
