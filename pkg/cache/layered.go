package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache is a two-level cache: L1 in memory, L2 in Redis.
type LayeredCache struct {
	mem    *MemoryCache
	remote Service
}

// NewLayeredCache creates a layered cache over remote.
func NewLayeredCache(mem *MemoryCache, remote Service) *LayeredCache {
	return &LayeredCache{mem: mem, remote: remote}
}

// Set writes through to the remote layer, then memory.
func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.remote.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return lc.mem.Set(ctx, key, value, expiration)
}

// Get tries memory, then the remote layer, back-filling memory on a remote hit.
func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.mem.Get(ctx, key, dest); err == nil {
		return nil
	}

	if err := lc.remote.Get(ctx, key, dest); err != nil {
		return err
	}

	_ = lc.mem.Set(ctx, key, dest, 0)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.mem.Delete(ctx, keys...)
	return lc.remote.Delete(ctx, keys...)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	return errors.Join(lc.mem.Close(), lc.remote.Close())
}
