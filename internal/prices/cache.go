package prices

import (
	"context"
	"sync"

	"tradepilot/internal/models"
)

// SeriesCache stores fetched price series per instrument. A durable
// implementation (see internal/store) takes precedence over a re-fetch;
// the in-memory one covers a single run.
type SeriesCache interface {
	Get(ctx context.Context, symbol string) (models.Series, bool, error)
	Put(ctx context.Context, symbol string, series models.Series) error
	Evict(ctx context.Context, symbol string) error
}

// MemoryCache is a mutex-guarded in-memory SeriesCache.
type MemoryCache struct {
	mu     sync.RWMutex
	series map[string]models.Series
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{series: make(map[string]models.Series)}
}

// Get returns the cached series for symbol, if any.
func (c *MemoryCache) Get(ctx context.Context, symbol string) (models.Series, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	series, ok := c.series[symbol]
	return series, ok, nil
}

// Put stores the series for symbol. First write wins; concurrent
// duplicate fetches are wasteful but not unsafe.
func (c *MemoryCache) Put(ctx context.Context, symbol string, series models.Series) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.series[symbol]; !ok {
		c.series[symbol] = series
	}
	return nil
}

// Evict removes the series for symbol.
func (c *MemoryCache) Evict(ctx context.Context, symbol string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.series, symbol)
	return nil
}
