package dto

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type DirectionsRequest struct {
	From *Point `json:"from"`
	To   *Point `json:"to"`
}

type AffectedIssueResponse struct {
	Issue   IssueResponse `json:"issue"`
	Minutes float64       `json:"minutes"`
}

// Blocked routes carry null penalty and adjusted times and no formatted time.
type RouteResponse struct {
	OriginalIndex       int                     `json:"original_index"`
	Coordinates         [][]float64             `json:"coordinates"`
	DistanceMeters      float64                 `json:"distance_meters"`
	BaseTimeMinutes     float64                 `json:"base_time_minutes"`
	PenaltyMinutes      *float64                `json:"penalty_minutes"`
	AdjustedTimeMinutes *float64                `json:"adjusted_time_minutes"`
	FormattedTime       string                  `json:"formatted_time,omitempty"`
	Blocked             bool                    `json:"blocked"`
	BlockingIssues      []IssueResponse         `json:"blocking_issues"`
	AffectedIssues      []AffectedIssueResponse `json:"affected_issues"`
}

type DirectionsResponse struct {
	Recommended   *RouteResponse  `json:"recommended"`
	Routes        []RouteResponse `json:"routes"`
	BlockedRoutes []RouteResponse `json:"blocked_routes"`
}
