package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
	"strings"
	"time"
)

type pointSeed struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type IssueSeed struct {
	Type          string      `json:"type"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	RoutePoints   []pointSeed `json:"routePoints"`
	DurationHours float64     `json:"duration"`
}

// Populate a store with demo issues from a JSON file. Each seeded issue is
// created at now and expires after its duration (24 h when unset).
func SeedFromJSON(ctx context.Context, repo ports.IssueRepository, jsonPath string, now time.Time) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed issues: read %q: %w", jsonPath, err)
	}

	var data []IssueSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed issues: parse json: %w", err)
	}

	for i, item := range data {
		t := domain.IssueType(strings.TrimSpace(item.Type))
		if !t.Known() {
			return i, fmt.Errorf("seed issues: item %d: unknown type %q", i+1, item.Type)
		}

		hours := item.DurationHours
		if hours <= 0 {
			hours = 24
		}

		points := make([]domain.Point, 0, len(item.RoutePoints))
		for _, p := range item.RoutePoints {
			points = append(points, domain.Point{Lat: p.Lat, Lng: p.Lng})
		}

		issue := domain.Issue{
			Type:        t,
			Title:       strings.TrimSpace(item.Title),
			Description: strings.TrimSpace(item.Description),
			RoutePoints: points,
			Status:      domain.StatusPending,
			CreatedAt:   now,
			ExpiresAt:   now.Add(time.Duration(hours * float64(time.Hour))),
		}
		if _, err := repo.Save(ctx, issue); err != nil {
			return i, fmt.Errorf("seed issues: item %d: %w", i+1, err)
		}
	}

	return len(data), nil
}
