package services

import (
	"road-issue-service/internal/domain"
	"road-issue-service/internal/geo"
)

// IssueBufferDegrees pads an issue's bounding box on every side (~500 m near the equator).
const IssueBufferDegrees = 0.005

// RouteIntersectsIssue reports whether any route coordinate falls inside the
// issue segment's bounding box expanded by IssueBufferDegrees.
//
// This is a bounding-box approximation, not exact segment intersection: a
// route on a parallel road within the buffer also matches. Issues without
// exactly two route points never match.
func RouteIntersectsIssue(route []domain.Point, issue domain.Issue) bool {
	a, b, ok := issue.Segment()
	if !ok {
		return false
	}

	bounds := geo.SegmentBounds(a, b).Expand(IssueBufferDegrees)
	for _, p := range route {
		if bounds.Contains(p) {
			return true
		}
	}
	return false
}
