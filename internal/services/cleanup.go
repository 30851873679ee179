package services

import (
	"context"
	"fmt"
	"log"
	"road-issue-service/internal/ports"
	"time"
)

// CleanupExpired removes issues whose expiry is at or before now.
func CleanupExpired(ctx context.Context, now time.Time, repo ports.IssueRepository) (int, error) {
	n, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("cleanup expired issues: %w", err)
	}
	if n > 0 {
		log.Printf("cleanup deleted=%d", n)
	}
	return n, nil
}

// RunCleanup runs CleanupExpired immediately and then every interval until ctx is done.
// Failures are logged and the loop continues.
func RunCleanup(ctx context.Context, interval time.Duration, repo ports.IssueRepository, clock func() time.Time) {
	if clock == nil {
		clock = time.Now
	}
	if interval <= 0 {
		interval = time.Hour
	}

	if _, err := CleanupExpired(ctx, clock(), repo); err != nil {
		log.Printf("cleanup failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("cleanup started interval=%s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("cleanup stopped")
			return
		case <-ticker.C:
			if _, err := CleanupExpired(ctx, clock(), repo); err != nil {
				log.Printf("cleanup failed: %v", err)
			}
		}
	}
}
