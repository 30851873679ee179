package domain

// Aggregate metrics reported by a routing provider for one candidate.
type RouteSummary struct {
	TotalDistanceMeters float64
	TotalTimeSeconds    float64
}

// One path option between two points as returned by a routing provider.
// OriginalIndex is the provider-assigned position and is used as the ranking tie-breaker.
type CandidateRoute struct {
	Coordinates   []Point
	Summary       RouteSummary
	OriginalIndex int
}

// An intersecting, non-blocking issue and the minutes it adds.
type AffectedIssue struct {
	Issue   Issue
	Minutes float64
}

// Derived ranking data for a single candidate route. Created per ranking call.
type RankedRoute struct {
	Route           CandidateRoute
	BaseTimeMinutes float64
	Penalty         Penalty
	BlockingIssues  []Issue
	AffectedIssues  []AffectedIssue
}

func (r RankedRoute) IsBlocked() bool { return r.Penalty.Blocked() }

// PenaltyMinutes is the finite delay; ok is false for blocked routes.
func (r RankedRoute) PenaltyMinutes() (float64, bool) { return r.Penalty.Minutes() }

// AdjustedTimeMinutes is base time plus penalty; ok is false for blocked routes.
func (r RankedRoute) AdjustedTimeMinutes() (float64, bool) {
	m, ok := r.Penalty.Minutes()
	if !ok {
		return 0, false
	}
	return r.BaseTimeMinutes + m, true
}

// Output of ranking: feasible routes best first, and infeasible routes in provider order.
type RankResult struct {
	Valid   []RankedRoute
	Blocked []RankedRoute
}

// Best returns the recommended route, or false when no feasible route exists.
// A blocked route is never returned.
func (r RankResult) Best() (RankedRoute, bool) {
	if len(r.Valid) == 0 {
		return RankedRoute{}, false
	}
	return r.Valid[0], true
}
