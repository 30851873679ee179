package repositories

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

var baseTime = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return db
}

func newIssue(title string, created time.Time, ttl time.Duration) domain.Issue {
	return domain.Issue{
		Type:  domain.IssueTraffic,
		Title: title,
		RoutePoints: []domain.Point{
			{Lat: -1.950, Lng: 30.060},
			{Lat: -1.952, Lng: 30.062},
		},
		Status:    domain.StatusPending,
		CreatedAt: created,
		ExpiresAt: created.Add(ttl),
	}
}

func TestSqliteIssueRepository_SaveAndListActive(t *testing.T) {
	ctx := context.Background()
	repo := NewSqliteIssueRepository(openTestDB(t))

	saved, err := repo.Save(ctx, newIssue("jam", baseTime, 2*time.Hour))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected generated ID")
	}

	if _, err := repo.Save(ctx, newIssue("stale", baseTime.Add(-3*time.Hour), time.Hour)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := repo.Save(ctx, newIssue("soon", baseTime, time.Hour)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.ListActive(ctx, baseTime)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 active issues, got %d", len(got))
	}
	if got[0].Title != "soon" || got[1].Title != "jam" {
		t.Fatalf("expected expiry order [soon jam], got [%s %s]", got[0].Title, got[1].Title)
	}

	jam := got[1]
	if jam.ID != saved.ID {
		t.Fatalf("ID mismatch: %q vs %q", jam.ID, saved.ID)
	}
	if jam.Type != domain.IssueTraffic || jam.Status != domain.StatusPending {
		t.Fatalf("unexpected type/status: %s/%s", jam.Type, jam.Status)
	}
	if !jam.CreatedAt.Equal(baseTime) || !jam.ExpiresAt.Equal(baseTime.Add(2*time.Hour)) {
		t.Fatalf("unexpected timestamps: created=%v expires=%v", jam.CreatedAt, jam.ExpiresAt)
	}
	if len(jam.RoutePoints) != 2 || jam.RoutePoints[1] != (domain.Point{Lat: -1.952, Lng: 30.062}) {
		t.Fatalf("unexpected route points: %+v", jam.RoutePoints)
	}
	if jam.UpdatedAt != nil {
		t.Fatalf("expected nil UpdatedAt, got %v", jam.UpdatedAt)
	}
}

func TestSqliteIssueRepository_UpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewSqliteIssueRepository(openTestDB(t))

	saved, err := repo.Save(ctx, newIssue("flood", baseTime, time.Hour))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	at := baseTime.Add(10 * time.Minute)
	if err := repo.UpdateStatus(ctx, saved.ID, domain.StatusVerified, at); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	got, err := repo.ListActive(ctx, baseTime)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if got[0].Status != domain.StatusVerified {
		t.Fatalf("expected verified, got %s", got[0].Status)
	}
	if got[0].UpdatedAt == nil || !got[0].UpdatedAt.Equal(at) {
		t.Fatalf("expected UpdatedAt %v, got %v", at, got[0].UpdatedAt)
	}

	if err := repo.UpdateStatus(ctx, "missing", domain.StatusResolved, at); !errors.Is(err, ports.ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, saved.ID); !errors.Is(err, ports.ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound on second delete, got %v", err)
	}
}

func TestSqliteIssueRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewSqliteIssueRepository(openTestDB(t))

	for _, ttl := range []time.Duration{time.Hour, 2 * time.Hour, 3 * time.Hour} {
		if _, err := repo.Save(ctx, newIssue("x", baseTime, ttl)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	// Expiry exactly at now counts as expired.
	n, err := repo.DeleteExpired(ctx, baseTime.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	got, err := repo.ListActive(ctx, baseTime)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 remaining issue, got %d", len(got))
	}
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	repo := NewSqliteIssueRepository(openTestDB(t))

	path := filepath.Join(t.TempDir(), "issues.json")
	seed := `[
		{"type": "closure", "title": "KN 3 Rd closed", "routePoints": [{"lat": -1.95, "lng": 30.06}, {"lat": -1.951, "lng": 30.061}]},
		{"type": "pothole", "title": "Pothole", "routePoints": [{"lat": -1.96, "lng": 30.07}, {"lat": -1.961, "lng": 30.071}], "duration": 2}
	]`
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	n, err := SeedFromJSON(ctx, repo, path, baseTime)
	if err != nil {
		t.Fatalf("SeedFromJSON: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 seeded, got %d", n)
	}

	got, err := repo.ListActive(ctx, baseTime)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(got))
	}
	if got[0].Type != domain.IssuePothole || !got[0].ExpiresAt.Equal(baseTime.Add(2*time.Hour)) {
		t.Fatalf("expected pothole expiring in 2h first, got %s at %v", got[0].Type, got[0].ExpiresAt)
	}
	if !got[1].ExpiresAt.Equal(baseTime.Add(24 * time.Hour)) {
		t.Fatalf("expected default 24h expiry, got %v", got[1].ExpiresAt)
	}
}

func TestSeedFromJSON_RejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issues.json")
	if err := os.WriteFile(path, []byte(`[{"type": "meteor"}]`), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	repo := NewMemoryIssueRepository()
	if _, err := SeedFromJSON(context.Background(), repo, path, baseTime); err == nil {
		t.Fatal("expected error for unknown issue type")
	}
}

func TestSqliteIssueRepository_ListAllAndByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewSqliteIssueRepository(openTestDB(t))

	old := newIssue("old", baseTime.Add(-48*time.Hour), time.Hour)
	old.UserID = "u1"
	mine := newIssue("mine", baseTime, time.Hour)
	mine.UserID = "u1"
	theirs := newIssue("theirs", baseTime.Add(-time.Hour), time.Hour)
	theirs.UserID = "u2"

	for _, i := range []domain.Issue{old, mine, theirs} {
		if _, err := repo.Save(ctx, i); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 || all[0].Title != "mine" || all[1].Title != "theirs" || all[2].Title != "old" {
		t.Fatalf("expected all issues newest first including expired, got %d", len(all))
	}

	byUser, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(byUser) != 2 || byUser[0].Title != "mine" || byUser[1].Title != "old" {
		t.Fatalf("unexpected user issues: %+v", byUser)
	}
}

func TestSqlitePointsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSqlitePointsRepository(openTestDB(t))

	empty, err := repo.Get(ctx, "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if empty.UserID != "nobody" || empty.Points != 0 || empty.IssuesReported != 0 {
		t.Fatalf("expected zero record, got %+v", empty)
	}

	later := baseTime.Add(time.Hour)
	steps := []struct {
		user, name string
		at         time.Time
	}{
		{"u1", "Aline", baseTime},
		{"u1", "", later},
		{"u2", "Eric", baseTime},
	}
	for _, s := range steps {
		if err := repo.Award(ctx, s.user, s.name, 5, s.at); err != nil {
			t.Fatalf("Award: %v", err)
		}
	}

	u1, err := repo.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u1.Points != 10 || u1.IssuesReported != 2 || u1.DisplayName != "Aline" {
		t.Fatalf("unexpected u1 record: %+v", u1)
	}
	if !u1.CreatedAt.Equal(baseTime) || !u1.UpdatedAt.Equal(later) {
		t.Fatalf("unexpected u1 timestamps: created=%v updated=%v", u1.CreatedAt, u1.UpdatedAt)
	}

	top, err := repo.Leaderboard(ctx, 1)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(top) != 1 || top[0].UserID != "u1" {
		t.Fatalf("unexpected leaderboard: %+v", top)
	}
}
