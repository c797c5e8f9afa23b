package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

// MemcachedCache implements Cache using memcached, for deployments where
// several service replicas share one observation cache.
type MemcachedCache struct {
	client *memcache.Client
}

// NewMemcachedCache creates a MemcachedCache. addrs is a comma-separated
// list (e.g. "localhost:11211" or "host1:11211,host2:11211"). timeout
// and maxIdleConns use package defaults if zero.
func NewMemcachedCache(addrs string, timeout time.Duration, maxIdleConns int) (*MemcachedCache, error) {
	servers := parseAddrs(addrs)
	if len(servers) == 0 {
		servers = []string{"localhost:11211"}
	}
	client := memcache.New(servers...)
	if timeout > 0 {
		client.Timeout = timeout
	}
	if maxIdleConns > 0 {
		client.MaxIdleConns = maxIdleConns
	}
	return &MemcachedCache{client: client}, nil
}

func parseAddrs(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Get implements Cache.Get. Returns false, nil on cache miss; false, err
// on error.
func (c *MemcachedCache) Get(ctx context.Context, regionID int64) (models.WeatherObservation, bool, error) {
	if ctx.Err() != nil {
		return models.WeatherObservation{}, false, ctx.Err()
	}
	item, err := c.client.Get(Key(regionID))
	if err != nil {
		if err == memcache.ErrCacheMiss {
			return models.WeatherObservation{}, false, nil
		}
		return models.WeatherObservation{}, false, err
	}
	var obs models.WeatherObservation
	if err := json.Unmarshal(item.Value, &obs); err != nil {
		return models.WeatherObservation{}, false, err
	}
	return obs, true, nil
}

// Set implements Cache.Set.
func (c *MemcachedCache) Set(ctx context.Context, regionID int64, obs models.WeatherObservation, ttl time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	raw, err := json.Marshal(obs)
	if err != nil {
		return err
	}
	expSec := int32(ttl.Seconds())
	const maxRelativeExp = 30 * 24 * 60 * 60 // memcached treats larger values as unix timestamps
	if expSec <= 0 || expSec > maxRelativeExp {
		expSec = 600
	}
	return c.client.Set(&memcache.Item{
		Key:        Key(regionID),
		Value:      raw,
		Expiration: expSec,
	})
}

// Ping checks memcached reachability for health checks.
func (c *MemcachedCache) Ping() error {
	return c.client.Ping()
}

// Close releases idle connections.
func (c *MemcachedCache) Close() error {
	return c.client.Close()
}
