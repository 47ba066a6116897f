package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// authCachePrefix is the Redis key prefix for verified API keys.
const authCachePrefix = "auth:key:"

// VerifiedKey is stored for a key that passed matching, so argon2 hashing
// is skipped on subsequent requests.
type VerifiedKey struct {
	KeyID string `json:"key_id"`
}

// GetVerifiedKey retrieves a verified key by its hash.
// Returns nil if not found (cache miss).
func (c *Cache) GetVerifiedKey(ctx context.Context, keyHash string) (*VerifiedKey, error) {
	data, err := c.client.Get(ctx, authCachePrefix+keyHash).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached VerifiedKey
	if err := json.Unmarshal(data, &cached); err != nil || cached.KeyID == "" {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &cached, nil
}

// SetVerifiedKey caches a verified key.
func (c *Cache) SetVerifiedKey(ctx context.Context, keyHash string, key *VerifiedKey) error {
	data, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("marshal verified key: %w", err)
	}

	return c.client.Set(ctx, authCachePrefix+keyHash, data, c.authTTL).Err()
}
