package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/platform/obs"
	"time"
)

// Dialect-specific pieces of the points queries. SQLite stores unix ms; Postgres stores timestamptz.
type pointsDialect struct {
	name   string
	upsert string
	get    string
	top    string
	stamp  func(time.Time) any
}

var sqlitePoints = pointsDialect{
	name: "sqlite",
	upsert: `
	INSERT INTO user_points (user_id, display_name, points, issues_reported, created_at, updated_at)
	VALUES (?, ?, ?, 1, ?, ?)
	ON CONFLICT (user_id) DO UPDATE SET
		points = user_points.points + excluded.points,
		issues_reported = user_points.issues_reported + 1,
		display_name = CASE WHEN excluded.display_name <> '' THEN excluded.display_name ELSE user_points.display_name END,
		updated_at = excluded.updated_at;
	`,
	get: `SELECT user_id, display_name, points, issues_reported, created_at, updated_at
	FROM user_points WHERE user_id = ?;`,
	top: `SELECT user_id, display_name, points, issues_reported, created_at, updated_at
	FROM user_points ORDER BY points DESC, user_id ASC LIMIT ?;`,
	stamp: func(t time.Time) any { return t.UnixMilli() },
}

var postgresPoints = pointsDialect{
	name: "postgres",
	upsert: `
	INSERT INTO user_points (user_id, display_name, points, issues_reported, created_at, updated_at)
	VALUES ($1, $2, $3, 1, $4, $5)
	ON CONFLICT (user_id) DO UPDATE SET
		points = user_points.points + EXCLUDED.points,
		issues_reported = user_points.issues_reported + 1,
		display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE user_points.display_name END,
		updated_at = EXCLUDED.updated_at;
	`,
	get: `SELECT user_id, display_name, points, issues_reported, created_at, updated_at
	FROM user_points WHERE user_id = $1;`,
	top: `SELECT user_id, display_name, points, issues_reported, created_at, updated_at
	FROM user_points ORDER BY points DESC, user_id ASC LIMIT $1;`,
	stamp: func(t time.Time) any { return t },
}

// SQL-backed PointsRepository for both SQLite and Postgres.
type SQLPointsRepository struct {
	DB      *sql.DB
	dialect pointsDialect
}

func NewSqlitePointsRepository(db *sql.DB) *SQLPointsRepository {
	return &SQLPointsRepository{DB: db, dialect: sqlitePoints}
}

func NewPostgresPointsRepository(db *sql.DB) *SQLPointsRepository {
	return &SQLPointsRepository{DB: db, dialect: postgresPoints}
}

func (s *SQLPointsRepository) Award(ctx context.Context, userID, displayName string, points int, at time.Time) (err error) {
	defer obs.Time(ctx, s.dialect.name+".points.Award")(&err)

	if s.DB == nil {
		return errors.New("points repository: DB is nil")
	}

	stamp := s.dialect.stamp(at)
	if _, err := s.DB.ExecContext(ctx, s.dialect.upsert, userID, displayName, points, stamp, stamp); err != nil {
		return fmt.Errorf("award points to %q: %w", userID, err)
	}
	return nil
}

func (s *SQLPointsRepository) Get(ctx context.Context, userID string) (domain.UserPoints, error) {
	row := s.DB.QueryRowContext(ctx, s.dialect.get, userID)

	p, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserPoints{UserID: userID}, nil
	}
	if err != nil {
		return domain.UserPoints{}, fmt.Errorf("get points for %q: %w", userID, err)
	}
	return p, nil
}

func (s *SQLPointsRepository) Leaderboard(ctx context.Context, limit int) (_ []domain.UserPoints, err error) {
	defer obs.Time(ctx, s.dialect.name+".points.Leaderboard")(&err)

	rows, err := s.DB.QueryContext(ctx, s.dialect.top, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: query user_points: %w", err)
	}
	defer rows.Close()

	out := make([]domain.UserPoints, 0, limit)
	for rows.Next() {
		p, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("leaderboard: scan row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leaderboard: row iteration: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLPointsRepository) scan(row rowScanner) (domain.UserPoints, error) {
	var p domain.UserPoints

	if s.dialect.name == "sqlite" {
		var created, updated int64
		if err := row.Scan(&p.UserID, &p.DisplayName, &p.Points, &p.IssuesReported, &created, &updated); err != nil {
			return domain.UserPoints{}, err
		}
		p.CreatedAt = time.UnixMilli(created).UTC()
		p.UpdatedAt = time.UnixMilli(updated).UTC()
		return p, nil
	}

	if err := row.Scan(&p.UserID, &p.DisplayName, &p.Points, &p.IssuesReported, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.UserPoints{}, err
	}
	return p, nil
}
