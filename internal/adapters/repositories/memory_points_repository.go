package repositories

import (
	"cmp"
	"context"
	"road-issue-service/internal/domain"
	"slices"
	"sync"
	"time"
)

// MemoryPointsRepository keeps reporter scores in process. Safe for concurrent use.
type MemoryPointsRepository struct {
	mu     sync.Mutex
	points map[string]domain.UserPoints
}

func NewMemoryPointsRepository() *MemoryPointsRepository {
	return &MemoryPointsRepository{points: map[string]domain.UserPoints{}}
}

func (r *MemoryPointsRepository) Award(ctx context.Context, userID, displayName string, points int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.points[userID]
	if !ok {
		p = domain.UserPoints{UserID: userID, CreatedAt: at}
	}
	if displayName != "" {
		p.DisplayName = displayName
	}
	p.Points += points
	p.IssuesReported++
	p.UpdatedAt = at
	r.points[userID] = p
	return nil
}

func (r *MemoryPointsRepository) Get(ctx context.Context, userID string) (domain.UserPoints, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.points[userID]; ok {
		return p, nil
	}
	return domain.UserPoints{UserID: userID}, nil
}

func (r *MemoryPointsRepository) Leaderboard(ctx context.Context, limit int) ([]domain.UserPoints, error) {
	r.mu.Lock()
	out := make([]domain.UserPoints, 0, len(r.points))
	for _, p := range r.points {
		out = append(out, p)
	}
	r.mu.Unlock()

	slices.SortFunc(out, func(a, b domain.UserPoints) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
