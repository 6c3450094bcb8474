package cache

import (
	"context"
	"time"

	"github.com/affreight/shipengine/pkg/domain"
)

// PortsTTL is the default time-to-live for the ports catalog cache
// (spec §9).
const PortsTTL = 10 * time.Minute

// PortsLoader fetches the full ports catalog from its source of
// record (the store) on a cache miss.
type PortsLoader func(ctx context.Context) ([]domain.Port, error)

// PortsCache caches the full ports catalog under a single key, since
// C5's fuzzy port matching always needs the whole list to search over.
type PortsCache struct {
	inner  *TTLCache[string, []domain.Port]
	loader PortsLoader
}

const portsCacheKey = "all"

// NewPortsCache builds a ports-catalog cache backed by loader for
// cache misses.
func NewPortsCache(loader PortsLoader) *PortsCache {
	return &PortsCache{inner: New[string, []domain.Port](PortsTTL), loader: loader}
}

// GetAll returns the cached catalog, loading and populating the cache
// on a miss or expiry.
func (c *PortsCache) GetAll(ctx context.Context) ([]domain.Port, error) {
	if ports, ok := c.inner.Get(portsCacheKey); ok {
		return ports, nil
	}
	ports, err := c.loader(ctx)
	if err != nil {
		return nil, err
	}
	c.inner.Set(portsCacheKey, ports)
	return ports, nil
}

// Invalidate forces the next GetAll to reload from the source of
// record, ahead of the TTL. Writes to ports do not call this
// automatically (spec §9: "writes to companies do not invalidate the
// cache" applies the same way here); it exists for admin tooling.
func (c *PortsCache) Invalidate() {
	c.inner.Delete(portsCacheKey)
}
