package services

import (
	"context"
	"errors"
	"road-issue-service/internal/adapters/repositories"
	"road-issue-service/internal/domain"
	"testing"
	"time"
)

func TestSubmitIssueAwardsPoints(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryIssueRepository()
	points := repositories.NewMemoryPointsRepository()

	for range 2 {
		_, err := SubmitIssue(ctx, SubmitIssueRequest{
			Type:        domain.IssueTraffic,
			RoutePoints: []domain.Point{segStart, segEnd},
			UserID:      "u1",
			DisplayName: "Aline",
		}, testNow, repo, points)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got, err := points.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Points != 2*PointsPerIssue || got.IssuesReported != 2 {
		t.Errorf("points = %d reported = %d, want %d and 2", got.Points, got.IssuesReported, 2*PointsPerIssue)
	}
	if got.DisplayName != "Aline" {
		t.Errorf("display name = %q", got.DisplayName)
	}
}

func TestSubmitIssueWithoutUserAwardsNothing(t *testing.T) {
	ctx := context.Background()
	points := repositories.NewMemoryPointsRepository()

	if _, err := SubmitIssue(ctx, SubmitIssueRequest{Type: domain.IssueDebris}, testNow,
		repositories.NewMemoryIssueRepository(), points); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	top, _ := points.Leaderboard(ctx, 10)
	if len(top) != 0 {
		t.Errorf("leaderboard = %d entries, want 0", len(top))
	}
}

func TestSubmitIssueRejectsLongDuration(t *testing.T) {
	repo := repositories.NewMemoryIssueRepository()

	_, err := SubmitIssue(context.Background(), SubmitIssueRequest{
		Type:     domain.IssueRoadworks,
		Duration: MaxIssueDuration + time.Hour,
	}, testNow, repo, nil)
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("err = %v, want ErrInvalidDuration", err)
	}

	all, _ := repo.ListAll(context.Background())
	if len(all) != 0 {
		t.Errorf("stored = %d, want 0", len(all))
	}
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	points := repositories.NewMemoryPointsRepository()

	award := func(user, name string, times int) {
		for range times {
			if err := points.Award(ctx, user, name, PointsPerIssue, testNow); err != nil {
				t.Fatalf("Award: %v", err)
			}
		}
	}
	award("a", "Aline", 1)
	award("b", "", 3)
	award("c", "Jean", 2)

	top, err := Leaderboard(ctx, 2, points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("entries = %d, want 2", len(top))
	}
	if top[0].UserID != "b" || top[0].Points != 15 || top[0].DisplayName != "Anonymous" {
		t.Errorf("first = %+v", top[0])
	}
	if top[1].UserID != "c" {
		t.Errorf("second = %+v", top[1])
	}

	all, err := Leaderboard(ctx, 0, points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("default limit entries = %d, want 3", len(all))
	}
}
