package ports

import (
	"context"
	"road-issue-service/internal/domain"
)

// Delivers route alerts to a user's device.
type Notifier interface {
	NotifyRouteIssues(ctx context.Context, deviceToken string, issues []domain.Issue) error
}
