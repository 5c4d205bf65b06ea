package windlib

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

type cachingWeatherProvider struct {
	WeatherProvider

	cache *ristretto.Cache
	ttl   time.Duration
}

func (c cachingWeatherProvider) Forecast(ctx context.Context, latitude, longitude float64) (Forecast, error) {
	cacheKey := fmt.Sprintf("%.4f,%.4f", latitude, longitude)

	if value, ok := c.cache.Get(cacheKey); ok {
		return value.(Forecast), nil
	}

	result, err := c.WeatherProvider.Forecast(ctx, latitude, longitude)
	if err != nil {
		return Forecast{}, err
	}

	c.cache.SetWithTTL(cacheKey, result, 1, c.ttl)

	return result, nil
}

// NewCachingWeatherProvider wraps a weather provider with a cache.
// Wind does not change that fast so it is ok to reuse forecasts for the
// same coordinates (rounded to 4 decimal places) during ttl. Only
// successful forecasts are cached.
func NewCachingWeatherProvider(provider WeatherProvider, itemsCount uint, ttl time.Duration) WeatherProvider {
	cacheConfig := &ristretto.Config{
		MaxCost:            int64(itemsCount),
		NumCounters:        10 * int64(itemsCount),
		Metrics:            false,
		BufferItems:        64,
		IgnoreInternalCost: true,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		panic(err)
	}

	return cachingWeatherProvider{
		WeatherProvider: provider,
		cache:           cache,
		ttl:             ttl,
	}
}
