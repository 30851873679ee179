package ports

import (
	"context"
	"road-issue-service/internal/domain"
)

// Contract for computing candidate routes between two points.
type RoutingProvider interface {
	// Return zero or more candidate routes in a stable provider order.
	// Each route's OriginalIndex is its position in the returned slice.
	GetRoutes(ctx context.Context, from, to domain.Point) ([]domain.CandidateRoute, error)
}
