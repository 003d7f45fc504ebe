package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"taxi/internal/geo"
)

// GeocodeCacheTTL is how long a resolved address stays cached.
const GeocodeCacheTTL = 24 * time.Hour

const geocodeCachePrefix = "cache:geocode:"

type cachedPoint struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// GeocodeCache is a read-through cache in front of another geocoder.
// Redis failures fall through to the wrapped geocoder; lookup failures are
// never cached.
type GeocodeCache struct {
	client *redis.Client
	next   geo.Geocoder
}

// NewGeocodeCache wraps next with a Redis cache.
func NewGeocodeCache(client *redis.Client, next geo.Geocoder) *GeocodeCache {
	return &GeocodeCache{client: client, next: next}
}

// Lookup returns the cached point for address or resolves and caches it.
func (c *GeocodeCache) Lookup(ctx context.Context, address string) (geo.Point, error) {
	key := geocodeCachePrefix + geo.NormalizeAddress(address)

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var p cachedPoint
		if json.Unmarshal(data, &p) == nil {
			return geo.Point{Lng: p.Lng, Lat: p.Lat}, nil
		}
	}

	point, err := c.next.Lookup(ctx, address)
	if err != nil {
		return geo.Point{}, err
	}

	if data, err := json.Marshal(cachedPoint{Lng: point.Lng, Lat: point.Lat}); err == nil {
		_ = c.client.Set(ctx, key, data, GeocodeCacheTTL).Err()
	}
	return point, nil
}
