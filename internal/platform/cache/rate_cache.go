package cache

import (
	"sync"
	"time"

	"github.com/facturave/facturave/internal/core/domain"
)

// InMemoryRateCache is a thread-safe read-through cache for resolved rates,
// keyed by (company, pair, date). There is no TTL: entries are dropped only
// by explicit invalidation, which DailyRateService triggers synchronously on
// every upsert so a superseded rate is never served.
type InMemoryRateCache struct {
	mu      sync.RWMutex
	entries map[string]domain.ResolvedRate
}

// NewInMemoryRateCache creates an empty rate cache.
func NewInMemoryRateCache() *InMemoryRateCache {
	return &InMemoryRateCache{
		entries: make(map[string]domain.ResolvedRate),
	}
}

func cacheKey(companyID string, pair domain.CurrencyPair, rateDate time.Time) string {
	return companyID + ":" + pair.String() + ":" + rateDate.Format("2006-01-02")
}

// Get returns the cached resolved rate, if present.
func (c *InMemoryRateCache) Get(companyID string, pair domain.CurrencyPair, rateDate time.Time) (*domain.ResolvedRate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cacheKey(companyID, pair, rateDate)]
	if !ok {
		return nil, false
	}
	return &entry, true
}

// Put stores a resolved rate.
func (c *InMemoryRateCache) Put(companyID string, pair domain.CurrencyPair, rateDate time.Time, rate domain.ResolvedRate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(companyID, pair, rateDate)] = rate
}

// Invalidate drops both directions of the pair for the date. Both are dropped
// because an inverse lookup may have been served from the same stored row.
func (c *InMemoryRateCache) Invalidate(companyID string, pair domain.CurrencyPair, rateDate time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, cacheKey(companyID, pair, rateDate))
	delete(c.entries, cacheKey(companyID, pair.Inverse(), rateDate))
}

// Size returns the number of cached entries.
func (c *InMemoryRateCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
