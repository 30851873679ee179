package routing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
)

// CachedProvider serves candidate routes from a RouteCache and falls back to
// the wrapped provider on a miss. Cache failures are logged, never returned.
type CachedProvider struct {
	next  ports.RoutingProvider
	cache ports.RouteCache
}

func NewCachedProvider(next ports.RoutingProvider, cache ports.RouteCache) *CachedProvider {
	return &CachedProvider{next: next, cache: cache}
}

func (c *CachedProvider) GetRoutes(ctx context.Context, from, to domain.Point) ([]domain.CandidateRoute, error) {
	routes, err := c.cache.Get(ctx, from, to)
	if err == nil {
		return routes, nil
	}
	if !errors.Is(err, ports.ErrCacheMiss) {
		log.Printf("route cache read failed: %v", err)
	}

	routes, err = c.next.GetRoutes(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("cached provider: %w", err)
	}

	// Empty results are not cached so a transient "no route" is retried.
	if len(routes) > 0 {
		if err := c.cache.Put(ctx, from, to, routes); err != nil {
			log.Printf("route cache write failed: %v", err)
		}
	}
	return routes, nil
}
