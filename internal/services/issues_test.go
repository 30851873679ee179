package services

import (
	"context"
	"errors"
	"road-issue-service/internal/adapters/repositories"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
	"testing"
	"time"
)

func TestSubmitIssueDefaults(t *testing.T) {
	repo := repositories.NewMemoryIssueRepository()

	got, err := SubmitIssue(context.Background(), SubmitIssueRequest{
		Type:        "Landslide",
		Title:       "  rocks on road ",
		RoutePoints: []domain.Point{segStart, segEnd},
		UserID:      "u1",
	}, testNow, repo, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID == "" {
		t.Errorf("expected an assigned ID")
	}
	if got.Type != domain.IssueOther {
		t.Errorf("type = %q, want other", got.Type)
	}
	if got.Title != "rocks on road" {
		t.Errorf("title = %q, want trimmed", got.Title)
	}
	if got.Status != domain.StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if !got.ExpiresAt.Equal(testNow.Add(24 * time.Hour)) {
		t.Errorf("expiresAt = %v, want now+24h", got.ExpiresAt)
	}

	active, _ := repo.ListActive(context.Background(), testNow)
	if len(active) != 1 {
		t.Errorf("active = %d, want 1", len(active))
	}
}

func TestSubmitIssueCustomDuration(t *testing.T) {
	repo := repositories.NewMemoryIssueRepository()

	got, err := SubmitIssue(context.Background(), SubmitIssueRequest{
		Type:     domain.IssueClosure,
		Duration: 2 * time.Hour,
	}, testNow, repo, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != domain.IssueClosure {
		t.Errorf("type = %q, want closure", got.Type)
	}
	if !got.ExpiresAt.Equal(testNow.Add(2 * time.Hour)) {
		t.Errorf("expiresAt = %v, want now+2h", got.ExpiresAt)
	}
}

func TestUpdateIssueStatus(t *testing.T) {
	repo := repositories.NewMemoryIssueRepository(issueOf("i1", domain.IssuePothole))
	ctx := context.Background()

	if err := UpdateIssueStatus(ctx, "i1", "bogus", testNow, repo); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if err := UpdateIssueStatus(ctx, "missing", domain.StatusVerified, testNow, repo); !errors.Is(err, ports.ErrIssueNotFound) {
		t.Fatalf("err = %v, want ErrIssueNotFound", err)
	}
	if err := UpdateIssueStatus(ctx, "i1", domain.StatusVerified, testNow, repo); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	active, _ := repo.ListActive(ctx, testNow)
	if active[0].Status != domain.StatusVerified || active[0].UpdatedAt == nil {
		t.Errorf("status not updated: %+v", active[0])
	}
}

func TestIssuesWithin(t *testing.T) {
	near := issueOf("near", domain.IssuePothole)
	far := issueOf("far", domain.IssuePothole)
	far.RoutePoints = []domain.Point{{Lat: -2.5, Lng: 29.7}, {Lat: -2.51, Lng: 29.71}}

	got := IssuesWithin([]domain.Issue{near, far}, domain.Point{Lat: -1.95, Lng: 30.06}, 1)
	if len(got) != 1 || got[0].ID != "near" {
		t.Fatalf("got %+v, want [near]", got)
	}
}

func TestCleanupExpired(t *testing.T) {
	expired := issueOf("old", domain.IssuePothole)
	expired.ExpiresAt = testNow
	repo := repositories.NewMemoryIssueRepository(expired, issueOf("new", domain.IssuePothole))

	n, err := CleanupExpired(context.Background(), testNow, repo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted = %d, want 1", n)
	}

	active, _ := repo.ListActive(context.Background(), testNow)
	if len(active) != 1 || active[0].ID != "new" {
		t.Errorf("remaining = %+v, want [new]", active)
	}
}

func TestRunCleanupStopsOnCancel(t *testing.T) {
	expired := issueOf("old", domain.IssuePothole)
	expired.ExpiresAt = testNow.Add(-time.Hour)
	repo := repositories.NewMemoryIssueRepository(expired)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunCleanup(ctx, time.Hour, repo, func() time.Time { return testNow })
		close(done)
	}()

	// The initial pass runs before the ticker starts.
	deadline := time.After(2 * time.Second)
	for {
		active, _ := repo.ListActive(context.Background(), testNow.Add(-2*time.Hour))
		if len(active) == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("initial cleanup did not run")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("RunCleanup did not stop after cancel")
	}
}
