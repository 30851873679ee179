package services

import (
	"context"
	"fmt"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/geo"
	"road-issue-service/internal/ports"
	"time"
)

// RouteAlertThresholdKm is how close a route point must be to an issue
// endpoint for a watched route to be alerted (~10 m).
const RouteAlertThresholdKm = 0.01

// IssuesNearRoute returns the issues with an endpoint within
// RouteAlertThresholdKm of any route point other than the last one.
// Issues with fewer than two route points are skipped.
func IssuesNearRoute(route []domain.Point, issues []domain.Issue) []domain.Issue {
	out := []domain.Issue{}
	if len(route) == 0 {
		return out
	}

	for _, issue := range issues {
		if len(issue.RoutePoints) < 2 {
			continue
		}
		start, end := issue.RoutePoints[0], issue.RoutePoints[1]

		for i := 0; i < len(route)-1; i++ {
			if geo.DistanceKm(route[i], start) < RouteAlertThresholdKm ||
				geo.DistanceKm(route[i], end) < RouteAlertThresholdKm {
				out = append(out, issue)
				break
			}
		}
	}
	return out
}

// CheckRoute matches a watched route against the active issues and, when a
// device token and notifier are supplied and something matched, pushes one alert.
func CheckRoute(
	ctx context.Context,
	route []domain.Point,
	now time.Time,
	issues ports.IssueRepository,
	notifier ports.Notifier,
	deviceToken string,
) ([]domain.Issue, error) {
	active, err := issues.ListActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("check route: list active issues: %w", err)
	}

	affected := IssuesNearRoute(route, active)

	if len(affected) > 0 && deviceToken != "" && notifier != nil {
		if err := notifier.NotifyRouteIssues(ctx, deviceToken, affected); err != nil {
			return affected, fmt.Errorf("check route: notify %d issue(s): %w", len(affected), err)
		}
	}

	return affected, nil
}
