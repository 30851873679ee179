package ports

import (
	"context"
	"errors"
	"road-issue-service/internal/domain"
	"time"
)

var ErrIssueNotFound = errors.New("issue not found")

// Port: a boundary for storing and retrieving road issue reports.
type IssueRepository interface {
	// Return issues with ExpiresAt after now, ordered by expiry ascending
	// then creation descending.
	ListActive(ctx context.Context, now time.Time) ([]domain.Issue, error)
	// Return every issue, expired included, newest first.
	ListAll(ctx context.Context) ([]domain.Issue, error)
	// Return the issues reported by userID, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Issue, error)
	// Persist a new issue and return it with its assigned ID.
	Save(ctx context.Context, issue domain.Issue) (domain.Issue, error)
	UpdateStatus(ctx context.Context, id string, status domain.IssueStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
	// Remove issues with ExpiresAt at or before now; return the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
