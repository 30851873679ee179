package repositories

import (
	"cmp"
	"context"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/ports"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryIssueRepository is a process-local IssueRepository used for demos and tests.
// It is safe for concurrent use.
type MemoryIssueRepository struct {
	mu     sync.RWMutex
	issues map[string]domain.Issue
}

func NewMemoryIssueRepository(seed ...domain.Issue) *MemoryIssueRepository {
	r := &MemoryIssueRepository{issues: make(map[string]domain.Issue, len(seed))}
	for _, i := range seed {
		if i.ID == "" {
			i.ID = uuid.NewString()
		}
		r.issues[i.ID] = i
	}
	return r
}

func (r *MemoryIssueRepository) ListActive(ctx context.Context, now time.Time) ([]domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Issue, 0, len(r.issues))
	for _, i := range r.issues {
		if i.Active(now) {
			out = append(out, i)
		}
	}
	sortActive(out)
	return out, nil
}

func (r *MemoryIssueRepository) ListAll(ctx context.Context) ([]domain.Issue, error) {
	return r.filter(func(domain.Issue) bool { return true }), nil
}

func (r *MemoryIssueRepository) ListByUser(ctx context.Context, userID string) ([]domain.Issue, error) {
	return r.filter(func(i domain.Issue) bool { return i.UserID == userID }), nil
}

func (r *MemoryIssueRepository) filter(keep func(domain.Issue) bool) []domain.Issue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Issue, 0, len(r.issues))
	for _, i := range r.issues {
		if keep(i) {
			out = append(out, i)
		}
	}
	sortNewest(out)
	return out
}

func (r *MemoryIssueRepository) Save(ctx context.Context, issue domain.Issue) (domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}
	r.issues[issue.ID] = issue
	return issue, nil
}

func (r *MemoryIssueRepository) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.issues[id]
	if !ok {
		return ports.ErrIssueNotFound
	}
	i.Status = status
	i.UpdatedAt = &at
	r.issues[id] = i
	return nil
}

func (r *MemoryIssueRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.issues[id]; !ok {
		return ports.ErrIssueNotFound
	}
	delete(r.issues, id)
	return nil
}

func (r *MemoryIssueRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, i := range r.issues {
		if !i.Active(now) {
			delete(r.issues, id)
			n++
		}
	}
	return n, nil
}

// sortActive orders by expiry ascending, then creation descending, then ID.
func sortActive(issues []domain.Issue) {
	slices.SortFunc(issues, func(a, b domain.Issue) int {
		if c := a.ExpiresAt.Compare(b.ExpiresAt); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// sortNewest orders by creation descending, then ID.
func sortNewest(issues []domain.Issue) {
	slices.SortFunc(issues, func(a, b domain.Issue) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
