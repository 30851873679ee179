package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
	"time"
)

var (
	// The routing provider found no path between the two points.
	ErrNoRouteFound = errors.New("no route found")
	// Every candidate route crosses a blocking issue.
	ErrAllRoutesBlocked = errors.New("all routes blocked")
)

// DirectionsPlan is the ranked outcome of a directions request.
type DirectionsPlan struct {
	Ranking     domain.RankResult
	Recommended *domain.RankedRoute
}

// PlanDirections fetches candidate routes and the active issue snapshot, then
// ranks the candidates.
//
// ErrNoRouteFound and ErrAllRoutesBlocked are returned as distinct conditions.
// For ErrAllRoutesBlocked the plan is still returned so callers can show why.
func PlanDirections(
	ctx context.Context,
	from domain.Point,
	to domain.Point,
	now time.Time,
	provider ports.RoutingProvider,
	issues ports.IssueRepository,
) (*DirectionsPlan, error) {
	if provider == nil || issues == nil {
		return nil, errors.New("plan directions: provider and issue repository must be non-nil")
	}

	routes, err := provider.GetRoutes(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("plan directions: get routes %s -> %s: %w", from, to, err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("plan directions: %s -> %s: %w", from, to, ErrNoRouteFound)
	}

	active, err := issues.ListActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("plan directions: list active issues: %w", err)
	}

	ranking := RankRoutes(routes, active)
	plan := &DirectionsPlan{Ranking: ranking}

	best, ok := ranking.Best()
	if !ok {
		log.Printf("directions blocked from=%s to=%s candidates=%d issues=%d", from, to, len(routes), len(active))
		return plan, fmt.Errorf("plan directions: %s -> %s: %w", from, to, ErrAllRoutesBlocked)
	}
	plan.Recommended = &best

	return plan, nil
}
