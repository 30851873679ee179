package services

import (
	"context"
	"errors"
	"road-issue-service/internal/adapters/repositories"
	"road-issue-service/internal/domain"
	"testing"
)

type recordingNotifier struct {
	token  string
	issues []domain.Issue
	err    error
}

func (n *recordingNotifier) NotifyRouteIssues(ctx context.Context, token string, issues []domain.Issue) error {
	n.token = token
	n.issues = issues
	return n.err
}

func TestIssuesNearRoute(t *testing.T) {
	near := issueOf("near", domain.IssueTraffic)
	far := issueOf("far", domain.IssueTraffic)
	far.RoutePoints = []domain.Point{{Lat: -1.80, Lng: 30.20}, {Lat: -1.81, Lng: 30.21}}
	malformed := domain.Issue{ID: "bad", RoutePoints: []domain.Point{segStart}}

	// ~5 m from segStart.
	route := []domain.Point{{Lat: -1.95004, Lng: 30.06003}, {Lat: -1.96, Lng: 30.07}}

	got := IssuesNearRoute(route, []domain.Issue{near, far, malformed})
	if len(got) != 1 || got[0].ID != "near" {
		t.Fatalf("got %+v, want [near]", got)
	}
}

func TestIssuesNearRouteSkipsLastPoint(t *testing.T) {
	route := []domain.Point{{Lat: -1.90, Lng: 30.10}, segEnd}

	got := IssuesNearRoute(route, []domain.Issue{issueOf("i", domain.IssuePothole)})
	if len(got) != 0 {
		t.Fatalf("last route point should not be checked, got %+v", got)
	}
}

func TestCheckRouteNotifies(t *testing.T) {
	repo := repositories.NewMemoryIssueRepository(issueOf("near", domain.IssueAccident))
	n := &recordingNotifier{}
	route := []domain.Point{segStart, {Lat: -1.96, Lng: 30.07}}

	got, err := CheckRoute(context.Background(), route, testNow, repo, n, "device-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("affected = %d, want 1", len(got))
	}
	if n.token != "device-1" || len(n.issues) != 1 {
		t.Errorf("notifier got token=%q issues=%d", n.token, len(n.issues))
	}
}

func TestCheckRouteWithoutTokenDoesNotNotify(t *testing.T) {
	repo := repositories.NewMemoryIssueRepository(issueOf("near", domain.IssueAccident))
	n := &recordingNotifier{}
	route := []domain.Point{segStart, {Lat: -1.96, Lng: 30.07}}

	if _, err := CheckRoute(context.Background(), route, testNow, repo, n, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.token != "" {
		t.Errorf("notifier should not be called without a token")
	}
}

func TestCheckRouteNotifyError(t *testing.T) {
	repo := repositories.NewMemoryIssueRepository(issueOf("near", domain.IssueAccident))
	n := &recordingNotifier{err: errors.New("fcm down")}
	route := []domain.Point{segStart, {Lat: -1.96, Lng: 30.07}}

	got, err := CheckRoute(context.Background(), route, testNow, repo, n, "device-1")
	if err == nil {
		t.Fatalf("expected notify error")
	}
	if len(got) != 1 {
		t.Errorf("affected issues should still be returned, got %d", len(got))
	}
}
