package cache

import (
	"context"
	"time"
)

// CompanyNamesTTL is the default time-to-live for the company-name
// cache (spec §9).
const CompanyNamesTTL = 5 * time.Minute

// CompanyNamesLoader fetches the id -> name map from the store on a
// cache miss.
type CompanyNamesLoader func(ctx context.Context) (map[string]string, error)

// CompanyNamesCache caches the company id -> display name map used to
// resolve shipment party references without a join on every read.
// Writes to companies do not invalidate it; staleness is bounded by
// CompanyNamesTTL (spec §9).
type CompanyNamesCache struct {
	inner  *TTLCache[string, map[string]string]
	loader CompanyNamesLoader
}

const companyNamesCacheKey = "all"

// NewCompanyNamesCache builds a company-name cache backed by loader
// for cache misses.
func NewCompanyNamesCache(loader CompanyNamesLoader) *CompanyNamesCache {
	return &CompanyNamesCache{inner: New[string, map[string]string](CompanyNamesTTL), loader: loader}
}

// Lookup resolves a single company id to its display name, loading
// and caching the full map on a miss. Returns "", false if the id is
// not present in the loaded map.
func (c *CompanyNamesCache) Lookup(ctx context.Context, companyID string) (string, bool, error) {
	m, ok := c.inner.Get(companyNamesCacheKey)
	if !ok {
		var err error
		m, err = c.loader(ctx)
		if err != nil {
			return "", false, err
		}
		c.inner.Set(companyNamesCacheKey, m)
	}
	name, found := m[companyID]
	return name, found, nil
}
