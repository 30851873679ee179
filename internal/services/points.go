package services

import (
	"context"
	"fmt"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
)

const (
	DefaultLeaderboardSize = 50
	MaxLeaderboardSize     = 100
)

// Leaderboard returns the top reporters. A non-positive limit means the
// default size; larger limits are capped at MaxLeaderboardSize.
// Records without a display name are shown as "Anonymous".
func Leaderboard(ctx context.Context, limit int, points ports.PointsRepository) ([]domain.UserPoints, error) {
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardSize
	case limit > MaxLeaderboardSize:
		limit = MaxLeaderboardSize
	}

	top, err := points.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	for i := range top {
		if top[i].DisplayName == "" {
			top[i].DisplayName = "Anonymous"
		}
	}
	return top, nil
}
