package services

import (
	"cmp"
	"road-issue-service/internal/domain"
	"slices"
)

// RankRoutes scores every candidate against the active issues and orders the
// feasible ones by adjusted travel time.
//
// Blocked routes are returned separately in provider order and are never
// mixed into Valid. Ties in adjusted time keep the provider's order.
// The function is pure and safe for concurrent use.
func RankRoutes(routes []domain.CandidateRoute, issues []domain.Issue) domain.RankResult {
	valid := make([]domain.RankedRoute, 0, len(routes))
	blocked := make([]domain.RankedRoute, 0)

	for _, route := range routes {
		rp := CalculateRoutePenalty(route.Coordinates, issues)

		ranked := domain.RankedRoute{
			Route:           route,
			BaseTimeMinutes: route.Summary.TotalTimeSeconds / 60,
			Penalty:         rp.Penalty,
			BlockingIssues:  rp.BlockingIssues,
			AffectedIssues:  rp.AffectedIssues,
		}

		if ranked.IsBlocked() {
			blocked = append(blocked, ranked)
			continue
		}
		valid = append(valid, ranked)
	}

	slices.SortStableFunc(valid, func(a, b domain.RankedRoute) int {
		at, _ := a.AdjustedTimeMinutes()
		bt, _ := b.AdjustedTimeMinutes()
		if c := cmp.Compare(at, bt); c != 0 {
			return c
		}
		return cmp.Compare(a.Route.OriginalIndex, b.Route.OriginalIndex)
	})

	return domain.RankResult{Valid: valid, Blocked: blocked}
}
