// Package cache provides short-TTL caching of current weather
// observations, keyed by region id, to avoid hammering the upstream
// weather API during batch assessments.
package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

// Cache stores current observations with TTL-based expiration.
// Get returns (zero, false, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, regionID int64) (models.WeatherObservation, bool, error)
	Set(ctx context.Context, regionID int64, obs models.WeatherObservation, ttl time.Duration) error
}

// Key renders the cache key for a region.
func Key(regionID int64) string {
	return "wxobs:" + strconv.FormatInt(regionID, 10)
}

type cacheEntry struct {
	value     models.WeatherObservation
	expiresAt time.Time
}

// InMemoryCache implements Cache with an in-process map. Safe for
// concurrent use; batch assessments hit it from many goroutines.
type InMemoryCache struct {
	mu   sync.RWMutex
	data map[int64]cacheEntry
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{data: make(map[int64]cacheEntry)}
}

// Get returns the cached observation if present and not expired.
// Expired entries are removed on access.
func (c *InMemoryCache) Get(ctx context.Context, regionID int64) (models.WeatherObservation, bool, error) {
	c.mu.RLock()
	entry, ok := c.data[regionID]
	c.mu.RUnlock()
	if !ok {
		return models.WeatherObservation{}, false, nil
	}

	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.data, regionID)
		c.mu.Unlock()
		return models.WeatherObservation{}, false, nil
	}
	return entry.value, true, nil
}

// Set stores an observation with the given TTL.
func (c *InMemoryCache) Set(ctx context.Context, regionID int64, obs models.WeatherObservation, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[regionID] = cacheEntry{
		value:     obs,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
