package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogCache stores decoded catalog responses as JSON.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

type redisCatalogCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCatalogCache(client *redis.Client, prefix string, ttl time.Duration) CatalogCache {
	return &redisCatalogCache{client: client, prefix: prefix, ttl: ttl}
}

// Get reports a miss as (false, nil).
func (c *redisCatalogCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}
	return true, nil
}

func (c *redisCatalogCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

type noopCatalogCache struct{}

func NewNoopCatalogCache() CatalogCache {
	return noopCatalogCache{}
}

func (noopCatalogCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (noopCatalogCache) Set(context.Context, string, interface{}) error { return nil }
