package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/safar/go-storefront/internal/models"
)

const catalogKey = "storefront:catalog"

// CatalogCache keeps the serialized catalog in Redis. A CatalogCache without
// a client never hits and silently drops writes.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

func (c *CatalogCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached catalog; ok is false on a miss.
func (c *CatalogCache) Get(ctx context.Context) (products []models.Product, ok bool, err error) {
	if !c.Enabled() {
		return nil, false, nil
	}

	raw, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached catalog: %w", err)
	}

	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("decode cached catalog: %w", err)
	}
	return products, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, products []models.Product) error {
	if !c.Enabled() {
		return nil
	}

	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := c.rdb.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache catalog: %w", err)
	}
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.rdb.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("invalidate catalog: %w", err)
	}
	return nil
}
