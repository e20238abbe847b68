package cache

import (
	"context"
	"time"
)

// LayeredCache checks a fast local layer before a shared remote layer
type LayeredCache struct {
	local  Cache
	remote Cache
}

// NewLayeredCache stacks local over remote
func NewLayeredCache(local, remote Cache) *LayeredCache {
	return &LayeredCache{local: local, remote: remote}
}

// Get checks the local layer first and promotes remote hits
func (c *LayeredCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, found := c.local.Get(ctx, key); found {
		return val, true
	}

	if val, found := c.remote.Get(ctx, key); found {
		_ = c.local.Set(ctx, key, val, 0)
		return val, true
	}

	return nil, false
}

// Set writes both layers; the remote error wins if both fail
func (c *LayeredCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.local.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return c.remote.Set(ctx, key, value, ttl)
}

func (c *LayeredCache) Delete(ctx context.Context, key string) error {
	_ = c.local.Delete(ctx, key)
	return c.remote.Delete(ctx, key)
}

func (c *LayeredCache) Clear(ctx context.Context) error {
	_ = c.local.Clear(ctx)
	return c.remote.Clear(ctx)
}
