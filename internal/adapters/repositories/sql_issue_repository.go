package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/platform/obs"
	"time"

	"github.com/google/uuid"
)

// Postgres-backed IssueRepository. The *sql.DB is expected to use the pgx driver.
type SQLIssueRepository struct{ DB *sql.DB }

func NewSQLIssueRepository(db *sql.DB) *SQLIssueRepository {
	return &SQLIssueRepository{DB: db}
}

func (s *SQLIssueRepository) ListActive(ctx context.Context, now time.Time) (_ []domain.Issue, err error) {
	defer obs.Time(ctx, "postgres.issues.ListActive")(&err)

	return s.query(ctx, "list active issues",
		`WHERE expires_at > $1 ORDER BY expires_at ASC, created_at DESC, id ASC`,
		now,
	)
}

func (s *SQLIssueRepository) ListAll(ctx context.Context) (_ []domain.Issue, err error) {
	defer obs.Time(ctx, "postgres.issues.ListAll")(&err)

	return s.query(ctx, "list all issues", `ORDER BY created_at DESC, id ASC`)
}

func (s *SQLIssueRepository) ListByUser(ctx context.Context, userID string) (_ []domain.Issue, err error) {
	defer obs.Time(ctx, "postgres.issues.ListByUser")(&err)

	return s.query(ctx, "list user issues",
		`WHERE user_id = $1 ORDER BY created_at DESC, id ASC`,
		userID,
	)
}

func (s *SQLIssueRepository) query(ctx context.Context, op, tail string, args ...any) ([]domain.Issue, error) {
	if s.DB == nil {
		return nil, errors.New("sql issue repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, type, title, description, route_points,
		user_id, display_name, status, created_at, expires_at, updated_at
	FROM issues `+tail+`;`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query issues table: %w", op, err)
	}
	defer rows.Close()

	issues := make([]domain.Issue, 0, 32)
	for rows.Next() {
		var (
			i                 domain.Issue
			points            []byte
			issueType, status string
			updated           sql.NullTime
		)
		if err := rows.Scan(
			&i.ID, &issueType, &i.Title, &i.Description, &points,
			&i.UserID, &i.DisplayName, &status, &i.CreatedAt, &i.ExpiresAt, &updated,
		); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		i.Type = domain.IssueType(issueType)
		i.Status = domain.IssueStatus(status)
		if updated.Valid {
			t := updated.Time
			i.UpdatedAt = &t
		}

		i.RoutePoints, err = decodeRoutePoints(points)
		if err != nil {
			return nil, fmt.Errorf("%s: issue %q: %w", op, i.ID, err)
		}
		issues = append(issues, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return issues, nil
}

func (s *SQLIssueRepository) Save(ctx context.Context, issue domain.Issue) (_ domain.Issue, err error) {
	defer obs.Time(ctx, "postgres.issues.Save")(&err)

	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}

	points, err := encodeRoutePoints(issue.RoutePoints)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("save issue: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO issues (
		id, type, title, description, route_points,
		user_id, display_name, status, created_at, expires_at
	)
	VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		type = EXCLUDED.type,
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		route_points = EXCLUDED.route_points,
		status = EXCLUDED.status,
		expires_at = EXCLUDED.expires_at;
	`,
		issue.ID, string(issue.Type), issue.Title, issue.Description, points,
		issue.UserID, issue.DisplayName, string(issue.Status), issue.CreatedAt, issue.ExpiresAt,
	)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("save issue %q: %w", issue.ID, err)
	}

	return issue, nil
}

func (s *SQLIssueRepository) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus, at time.Time) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE issues SET status = $1, updated_at = $2 WHERE id = $3;`,
		string(status), at, id,
	)
	if err != nil {
		return fmt.Errorf("update issue status %q: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (s *SQLIssueRepository) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM issues WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete issue %q: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (s *SQLIssueRepository) DeleteExpired(ctx context.Context, now time.Time) (n int, err error) {
	defer obs.Time(ctx, "postgres.issues.DeleteExpired")(&err)

	res, err := s.DB.ExecContext(ctx, `DELETE FROM issues WHERE expires_at <= $1;`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired issues: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired issues: rows affected: %w", err)
	}
	return int(affected), nil
}
