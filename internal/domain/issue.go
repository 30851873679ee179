package domain

import "time"

// Category of a reported road problem.
type IssueType string

const (
	IssueClosure   IssueType = "closure"
	IssueAccident  IssueType = "accident"
	IssueFlooding  IssueType = "flooding"
	IssueTraffic   IssueType = "traffic"
	IssueRoadworks IssueType = "roadworks"
	IssueDebris    IssueType = "debris"
	IssueOther     IssueType = "other"
	IssuePothole   IssueType = "pothole"
)

// IssueTypes lists every category a report may carry.
var IssueTypes = []IssueType{
	IssuePothole,
	IssueRoadworks,
	IssueAccident,
	IssueClosure,
	IssueFlooding,
	IssueDebris,
	IssueTraffic,
	IssueOther,
}

// Known reports whether t is one of the fixed categories.
func (t IssueType) Known() bool {
	for _, k := range IssueTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Severe reports whether t usually blocks or endangers traffic.
func (t IssueType) Severe() bool {
	switch t {
	case IssueAccident, IssueClosure, IssueFlooding:
		return true
	}
	return false
}

// Moderation state of a report.
type IssueStatus string

const (
	StatusPending  IssueStatus = "pending"
	StatusVerified IssueStatus = "verified"
	StatusResolved IssueStatus = "resolved"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusResolved:
		return true
	}
	return false
}

// Represents a user-submitted road report tied to a route segment.
// RoutePoints is expected to hold exactly two points (segment start and end);
// reports with any other count are kept but cannot be matched against routes.
type Issue struct {
	ID          string
	Type        IssueType
	Title       string
	Description string
	RoutePoints []Point
	UserID      string
	DisplayName string
	Status      IssueStatus
	CreatedAt   time.Time
	ExpiresAt   time.Time
	UpdatedAt   *time.Time
}

// Segment returns the two endpoints when the issue is spatially testable.
func (i Issue) Segment() (Point, Point, bool) {
	if len(i.RoutePoints) != 2 {
		return Point{}, Point{}, false
	}
	return i.RoutePoints[0], i.RoutePoints[1], true
}

// Active reports whether the issue has not yet expired at now.
func (i Issue) Active(now time.Time) bool {
	return i.ExpiresAt.After(now)
}
