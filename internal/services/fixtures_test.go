package services

import (
	"road-issue-service/internal/domain"
	"time"
)

var testNow = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

// Issue segment near Kigali city centre. Buffered box:
// lat [-1.957, -1.945], lng [30.055, 30.067].
var (
	segStart = domain.Point{Lat: -1.950, Lng: 30.060}
	segEnd   = domain.Point{Lat: -1.952, Lng: 30.062}
)

func issueOf(id string, t domain.IssueType) domain.Issue {
	return domain.Issue{
		ID:          id,
		Type:        t,
		RoutePoints: []domain.Point{segStart, segEnd},
		Status:      domain.StatusPending,
		CreatedAt:   testNow.Add(-time.Hour),
		ExpiresAt:   testNow.Add(23 * time.Hour),
	}
}

func throughRoute() []domain.Point {
	return []domain.Point{
		{Lat: -1.940, Lng: 30.050},
		{Lat: -1.951, Lng: 30.061},
		{Lat: -1.960, Lng: 30.070},
	}
}

func awayRoute() []domain.Point {
	return []domain.Point{
		{Lat: -1.900, Lng: 30.100},
		{Lat: -1.910, Lng: 30.110},
	}
}

func candidate(idx int, seconds float64, coords []domain.Point) domain.CandidateRoute {
	return domain.CandidateRoute{
		Coordinates:   coords,
		Summary:       domain.RouteSummary{TotalDistanceMeters: seconds * 10, TotalTimeSeconds: seconds},
		OriginalIndex: idx,
	}
}
