package domain

import "time"

// Represents a reporter's score. Points accrue per submitted issue.
type UserPoints struct {
	UserID         string
	DisplayName    string
	Points         int
	IssuesReported int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
