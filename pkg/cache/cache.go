// Package cache stores rendered artifacts keyed by a hash of their inputs.
//
// The CLI uses [FileCache] under the XDG cache directory; [NullCache] turns
// caching off (--no-cache). Keys come from [RenderKey], so identical plates,
// groups, viewport and format always map to the same entry.
package cache

import (
	"context"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/matzehuels/platecut/pkg/observability"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultDir is the render cache location, $XDG_CACHE_HOME/platecut.
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "platecut")
}

// Instrumented reports hits, misses and writes of c to the registered
// observability cache hooks under keyType.
func Instrumented(c Cache, keyType string) Cache {
	return &instrumented{Cache: c, keyType: keyType}
}

type instrumented struct {
	Cache
	keyType string
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}
