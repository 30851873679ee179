package ports

import (
	"context"
	"road-issue-service/internal/domain"
	"time"
)

// Port: per-user reporting score.
type PointsRepository interface {
	// Add points and one reported issue to a user's record, creating it when missing.
	Award(ctx context.Context, userID, displayName string, points int, at time.Time) error
	// Return the user's record, or a zero record carrying only UserID when none exists.
	Get(ctx context.Context, userID string) (domain.UserPoints, error)
	// Return the top records by points descending, at most limit entries.
	Leaderboard(ctx context.Context, limit int) ([]domain.UserPoints, error)
}
