package dto

import "time"

type IssueResponse struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	RoutePoints []Point    `json:"route_points"`
	UserID      string     `json:"user_id"`
	DisplayName string     `json:"display_name"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type ListIssuesResponse struct {
	Issues []IssueResponse `json:"issues"`
}

type SubmitIssueRequest struct {
	Type          string  `json:"type"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	RoutePoints   []Point `json:"route_points"`
	DisplayName   string  `json:"display_name"`
	DurationHours float64 `json:"duration_hours"`
}

type UpdateIssueStatusRequest struct {
	Status string `json:"status"`
}

type CheckRouteRequest struct {
	Route       []Point `json:"route"`
	DeviceToken string  `json:"device_token"`
}

type CheckRouteResponse struct {
	Issues   []IssueResponse `json:"issues"`
	Notified bool            `json:"notified"`
}
