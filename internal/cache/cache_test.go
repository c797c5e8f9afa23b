package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberline/wildfire-risk-service/internal/models"
)

func TestInMemoryCacheMiss(t *testing.T) {
	c := NewInMemoryCache()

	_, ok, err := c.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryCacheRoundTrip(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	obs := models.WeatherObservation{
		RegionID:    7,
		Temperature: 31.5,
		Humidity:    28,
		WindSpeed:   12.4,
	}
	require.NoError(t, c.Set(ctx, 7, obs, time.Minute))

	got, ok, err := c.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, obs, got)
}

func TestInMemoryCacheExpiration(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, models.WeatherObservation{Temperature: 20}, -time.Second))

	_, ok, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must read as a miss")
}

func TestInMemoryCacheOverwrite(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 3, models.WeatherObservation{Temperature: 10}, time.Minute))
	require.NoError(t, c.Set(ctx, 3, models.WeatherObservation{Temperature: 25}, time.Minute))

	got, ok, err := c.Get(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 25.0, got.Temperature)
}

func TestInMemoryCacheConcurrent(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_ = c.Set(ctx, id, models.WeatherObservation{RegionID: id}, time.Minute)
			_, _, _ = c.Get(ctx, id)
		}(int64(i % 5))
	}
	wg.Wait()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "wxobs:12", Key(12))
}

func TestParseAddrs(t *testing.T) {
	assert.Equal(t, []string{"a:11211", "b:11211"}, parseAddrs("a:11211, b:11211"))
	assert.Nil(t, parseAddrs(" , "))
}
