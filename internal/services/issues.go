package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/geo"
	"road-issue-service/internal/ports"
	"strings"
	"time"
)

const (
	// DefaultIssueDuration is how long a report stays active when none is given.
	DefaultIssueDuration = 24 * time.Hour
	// MaxIssueDuration bounds how long a single report may stay active.
	MaxIssueDuration = 30 * 24 * time.Hour
	// PointsPerIssue is the reporter's reward for each submitted issue.
	PointsPerIssue = 5
)

var (
	ErrInvalidStatus   = errors.New("invalid issue status")
	ErrInvalidDuration = errors.New("invalid issue duration")
)

// SubmitIssueRequest carries a new report as entered by a user.
type SubmitIssueRequest struct {
	Type        domain.IssueType
	Title       string
	Description string
	RoutePoints []domain.Point
	UserID      string
	DisplayName string
	Duration    time.Duration
}

// SubmitIssue fills in lifecycle fields, persists a new report and awards the
// reporter PointsPerIssue. Unknown categories are stored as "other". A failed
// award is logged and does not fail the submission; points may be nil.
func SubmitIssue(
	ctx context.Context,
	req SubmitIssueRequest,
	now time.Time,
	repo ports.IssueRepository,
	points ports.PointsRepository,
) (domain.Issue, error) {
	if req.Duration > MaxIssueDuration {
		return domain.Issue{}, fmt.Errorf("submit issue: %s exceeds %s: %w", req.Duration, MaxIssueDuration, ErrInvalidDuration)
	}

	t := domain.IssueType(strings.ToLower(strings.TrimSpace(string(req.Type))))
	if !t.Known() {
		t = domain.IssueOther
	}

	d := req.Duration
	if d <= 0 {
		d = DefaultIssueDuration
	}

	issue := domain.Issue{
		Type:        t,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		RoutePoints: req.RoutePoints,
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(d),
	}

	saved, err := repo.Save(ctx, issue)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("submit issue: %w", err)
	}

	if points != nil && saved.UserID != "" {
		if err := points.Award(ctx, saved.UserID, saved.DisplayName, PointsPerIssue, now); err != nil {
			log.Printf("award points failed: user=%s issue=%s err=%v", saved.UserID, saved.ID, err)
		}
	}

	return saved, nil
}

func UpdateIssueStatus(ctx context.Context, id string, status domain.IssueStatus, now time.Time, repo ports.IssueRepository) error {
	if !status.Valid() {
		return fmt.Errorf("update issue %q: %q: %w", id, status, ErrInvalidStatus)
	}
	if err := repo.UpdateStatus(ctx, id, status, now); err != nil {
		return fmt.Errorf("update issue %q: %w", id, err)
	}
	return nil
}

// IssuesWithin keeps issues having any route point within radiusKm of center.
func IssuesWithin(issues []domain.Issue, center domain.Point, radiusKm float64) []domain.Issue {
	out := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		for _, p := range issue.RoutePoints {
			if geo.DistanceKm(center, p) <= radiusKm {
				out = append(out, issue)
				break
			}
		}
	}
	return out
}
