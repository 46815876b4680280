package provider

import (
	"sync"
	"time"

	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
)

// cacheKey identifies one cached series. The region participates through
// its geometry fingerprint, never its object identity.
type cacheKey struct {
	model       string
	scenario    string
	timeframe   domain.Timeframe
	startDate   string
	endDate     string
	variable    domain.Variable
	regionPrint string
}

type cacheEntry struct {
	series     grid.Series
	insertedAt time.Time
}

// seriesCache is a capacity-bounded map of converted series. When an insert
// pushes the cache over capacity, the single oldest-by-insertion entry is
// dropped. The mutex covers the rare case of a provider shared across
// goroutines; the expected access pattern is a single logical owner.
type seriesCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[cacheKey]cacheEntry
}

func newSeriesCache(capacity int) *seriesCache {
	return &seriesCache{
		capacity: capacity,
		entries:  make(map[cacheKey]cacheEntry),
	}
}

func (c *seriesCache) get(key cacheKey) (grid.Series, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return grid.Series{}, false
	}
	return e.series, true
}

// put inserts a series and reports whether an eviction took place.
func (c *seriesCache) put(key cacheKey, s grid.Series, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{series: s, insertedAt: now}
	if len(c.entries) <= c.capacity {
		return false
	}

	var oldestKey cacheKey
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.insertedAt.Before(oldest) {
			oldestKey = k
			oldest = e.insertedAt
			first = false
		}
	}
	delete(c.entries, oldestKey)
	return true
}

func (c *seriesCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
