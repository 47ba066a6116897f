package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
)

const setKeyPrefix = "set:"

func setKey(id uuid.UUID) string {
	return setKeyPrefix + id.String()
}

// GetSet retrieves a cached set. Returns ErrCacheMiss if absent or corrupted.
func (c *Cache) GetSet(ctx context.Context, id uuid.UUID) (*model.Set, error) {
	data, err := c.client.Get(ctx, setKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	set, err := decodeSet(data)
	if err != nil {
		// Corrupted entry, drop it and treat as miss
		c.client.Del(ctx, setKey(id))
		return nil, ErrCacheMiss
	}

	return set, nil
}

// SetSet stores a set with the configured TTL.
func (c *Cache) SetSet(ctx context.Context, set *model.Set) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal set: %w", err)
	}

	if err := c.client.Set(ctx, setKey(set.ID), data, c.setTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache set: %w", err)
	}
	return nil
}

// DeleteSets removes the given sets from cache.
func (c *Cache) DeleteSets(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = setKey(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete sets from cache: %w", err)
	}
	return nil
}

func decodeSet(data []byte) (*model.Set, error) {
	var set model.Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	if set.ID == uuid.Nil {
		return nil, errors.New("cached set has no id")
	}
	if set.Words == nil {
		set.Words = []model.Word{}
	}
	return &set, nil
}
