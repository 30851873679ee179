package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/platform/obs"
	"road-issue-service/internal/ports"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache stores candidate routes per origin/destination pair with a TTL.
// Keys round coordinates to five decimals (~1 m) so repeated requests from
// the same map taps share an entry.
type RedisRouteCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, prefix: "routes", ttl: ttl}
}

type cachedPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type cachedRoute struct {
	Coordinates         []cachedPoint `json:"coordinates"`
	TotalDistanceMeters float64       `json:"total_distance_meters"`
	TotalTimeSeconds    float64       `json:"total_time_seconds"`
}

func (c *RedisRouteCache) key(from, to domain.Point) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 5, 64) }
	return c.prefix + ":" + f(from.Lat) + "," + f(from.Lng) + ":" + f(to.Lat) + "," + f(to.Lng)
}

func (c *RedisRouteCache) Get(ctx context.Context, from, to domain.Point) (_ []domain.CandidateRoute, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if c.client == nil {
		return nil, errors.New("route cache: client is nil")
	}

	b, err := c.client.Get(ctx, c.key(from, to)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get route cache: %w", err)
	}

	var stored []cachedRoute
	if err := json.Unmarshal(b, &stored); err != nil {
		return nil, fmt.Errorf("get route cache: decode: %w", err)
	}

	out := make([]domain.CandidateRoute, 0, len(stored))
	for i, r := range stored {
		coords := make([]domain.Point, 0, len(r.Coordinates))
		for _, p := range r.Coordinates {
			coords = append(coords, domain.Point{Lat: p.Lat, Lng: p.Lng})
		}
		out = append(out, domain.CandidateRoute{
			Coordinates: coords,
			Summary: domain.RouteSummary{
				TotalDistanceMeters: r.TotalDistanceMeters,
				TotalTimeSeconds:    r.TotalTimeSeconds,
			},
			OriginalIndex: i,
		})
	}
	return out, nil
}

// Put stores routes in provider order; OriginalIndex is rebuilt from position on Get.
func (c *RedisRouteCache) Put(ctx context.Context, from, to domain.Point, routes []domain.CandidateRoute) error {
	if c.client == nil {
		return errors.New("route cache: client is nil")
	}

	stored := make([]cachedRoute, 0, len(routes))
	for _, r := range routes {
		coords := make([]cachedPoint, 0, len(r.Coordinates))
		for _, p := range r.Coordinates {
			coords = append(coords, cachedPoint{Lat: p.Lat, Lng: p.Lng})
		}
		stored = append(stored, cachedRoute{
			Coordinates:         coords,
			TotalDistanceMeters: r.Summary.TotalDistanceMeters,
			TotalTimeSeconds:    r.Summary.TotalTimeSeconds,
		})
	}

	b, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("put route cache: encode: %w", err)
	}

	if err := c.client.Set(ctx, c.key(from, to), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put route cache: %w", err)
	}
	return nil
}
