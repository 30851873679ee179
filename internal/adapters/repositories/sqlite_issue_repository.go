package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/platform/obs"
	"road-issue-service/internal/ports"
	"time"

	"github.com/google/uuid"
)

// SQLite-backed implementation of the IssueRepository port.
type SqliteIssueRepository struct{ DB *sql.DB }

func NewSqliteIssueRepository(db *sql.DB) *SqliteIssueRepository {
	return &SqliteIssueRepository{DB: db}
}

const sqliteIssueColumns = `
	id, type, title, description, route_points,
	user_id, display_name, status, created_at, expires_at, updated_at
`

func (s *SqliteIssueRepository) ListActive(ctx context.Context, now time.Time) (_ []domain.Issue, err error) {
	defer obs.Time(ctx, "sqlite.issues.ListActive")(&err)

	return s.query(ctx, "list active issues",
		`WHERE expires_at > ? ORDER BY expires_at ASC, created_at DESC, id ASC`,
		now.UnixMilli(),
	)
}

func (s *SqliteIssueRepository) ListAll(ctx context.Context) (_ []domain.Issue, err error) {
	defer obs.Time(ctx, "sqlite.issues.ListAll")(&err)

	return s.query(ctx, "list all issues", `ORDER BY created_at DESC, id ASC`)
}

func (s *SqliteIssueRepository) ListByUser(ctx context.Context, userID string) (_ []domain.Issue, err error) {
	defer obs.Time(ctx, "sqlite.issues.ListByUser")(&err)

	return s.query(ctx, "list user issues",
		`WHERE user_id = ? ORDER BY created_at DESC, id ASC`,
		userID,
	)
}

func (s *SqliteIssueRepository) query(ctx context.Context, op, tail string, args ...any) ([]domain.Issue, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite issue repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+sqliteIssueColumns+` FROM issues `+tail+`;`, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query issues table: %w", op, err)
	}
	defer rows.Close()

	issues := make([]domain.Issue, 0, 32)
	for rows.Next() {
		var (
			i                 domain.Issue
			points            string
			created, expires  int64
			updated           sql.NullInt64
			issueType, status string
		)
		if err := rows.Scan(
			&i.ID, &issueType, &i.Title, &i.Description, &points,
			&i.UserID, &i.DisplayName, &status, &created, &expires, &updated,
		); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}

		i.Type = domain.IssueType(issueType)
		i.Status = domain.IssueStatus(status)
		i.CreatedAt = time.UnixMilli(created).UTC()
		i.ExpiresAt = time.UnixMilli(expires).UTC()
		if updated.Valid {
			t := time.UnixMilli(updated.Int64).UTC()
			i.UpdatedAt = &t
		}

		i.RoutePoints, err = decodeRoutePoints([]byte(points))
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

func (s *SqliteIssueRepository) Save(ctx context.Context, issue domain.Issue) (domain.Issue, error) {
	if s.DB == nil {
		return domain.Issue{}, errors.New("sqlite issue repository: DB is nil")
	}

	if issue.ID == "" {
		issue.ID = uuid.NewString()
	}

	points, err := encodeRoutePoints(issue.RoutePoints)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("save issue: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO issues (`+sqliteIssueColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL);
	`,
		issue.ID, string(issue.Type), issue.Title, issue.Description, points,
		issue.UserID, issue.DisplayName, string(issue.Status),
		issue.CreatedAt.UnixMilli(), issue.ExpiresAt.UnixMilli(),
	)
	if err != nil {
		return domain.Issue{}, fmt.Errorf("save issue %q: %w", issue.ID, err)
	}

	return issue, nil
}

func (s *SqliteIssueRepository) UpdateStatus(ctx context.Context, id string, status domain.IssueStatus, at time.Time) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE issues SET status = ?, updated_at = ? WHERE id = ?;`,
		string(status), at.UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("update issue status %q: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (s *SqliteIssueRepository) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM issues WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete issue %q: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (s *SqliteIssueRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM issues WHERE expires_at <= ?;`, now.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete expired issues: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired issues: rows affected: %w", err)
	}
	return int(n), nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("issue %q: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("issue %q: %w", id, ports.ErrIssueNotFound)
	}
	return nil
}
