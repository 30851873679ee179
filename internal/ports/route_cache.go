package ports

import (
	"context"
	"errors"
	"road-issue-service/internal/domain"
)

var ErrCacheMiss = errors.New("route cache miss")

// Cache for candidate routes keyed by an origin/destination pair.
type RouteCache interface {
	// Return cached routes or ErrCacheMiss.
	Get(ctx context.Context, from, to domain.Point) ([]domain.CandidateRoute, error)
	Put(ctx context.Context, from, to domain.Point, routes []domain.CandidateRoute) error
}
