package repositories

import (
	"context"
	"errors"
	"fmt"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/platform/obs"
	"road-issue-service/internal/ports"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const issuesCollection = "issues"

type firestorePoint struct {
	Lat float64 `firestore:"lat"`
	Lng float64 `firestore:"lng"`
}

type firestoreIssue struct {
	Type        string           `firestore:"type"`
	Title       string           `firestore:"title"`
	Description string           `firestore:"description"`
	RoutePoints []firestorePoint `firestore:"routePoints"`
	UserID      string           `firestore:"userId"`
	DisplayName string           `firestore:"displayName"`
	Status      string           `firestore:"status"`
	CreatedAt   time.Time        `firestore:"createdAt"`
	ExpiresAt   time.Time        `firestore:"expiresAt"`
	UpdatedAt   *time.Time       `firestore:"updatedAt,omitempty"`
}

// Firestore-backed IssueRepository, one document per issue in the "issues" collection.
type FirestoreIssueRepository struct {
	client *firestore.Client
}

func NewFirestoreIssueRepository(client *firestore.Client) *FirestoreIssueRepository {
	return &FirestoreIssueRepository{client: client}
}

func (f *FirestoreIssueRepository) ListActive(ctx context.Context, now time.Time) (_ []domain.Issue, err error) {
	defer obs.Time(ctx, "firestore.issues.ListActive")(&err)

	issues, err := collectIssues(f.client.Collection(issuesCollection).
		Where("expiresAt", ">", now).
		OrderBy("expiresAt", firestore.Asc).
		Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("list active issues: %w", err)
	}

	// Firestore only orders by the inequality field; apply the full ordering here.
	sortActive(issues)
	return issues, nil
}

func (f *FirestoreIssueRepository) ListAll(ctx context.Context) (_ []domain.Issue, err error) {
	defer obs.Time(ctx, "firestore.issues.ListAll")(&err)

	issues, err := collectIssues(f.client.Collection(issuesCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("list all issues: %w", err)
	}
	return issues, nil
}

func (f *FirestoreIssueRepository) ListByUser(ctx context.Context, userID string) (_ []domain.Issue, err error) {
	defer obs.Time(ctx, "firestore.issues.ListByUser")(&err)

	issues, err := collectIssues(f.client.Collection(issuesCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("list user issues: %w", err)
	}
	return issues, nil
}

func collectIssues(iter *firestore.DocumentIterator) ([]domain.Issue, error) {
	defer iter.Stop()

	issues := make([]domain.Issue, 0, 32)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate documents: %w", err)
		}

		var rec firestoreIssue
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode %q: %w", doc.Ref.ID, err)
		}
		issues = append(issues, fromFirestore(doc.Ref.ID, rec))
	}
	return issues, nil
}

func (f *FirestoreIssueRepository) Save(ctx context.Context, issue domain.Issue) (_ domain.Issue, err error) {
	defer obs.Time(ctx, "firestore.issues.Save")(&err)

	col := f.client.Collection(issuesCollection)
	ref := col.NewDoc()
	if issue.ID != "" {
		ref = col.Doc(issue.ID)
	}

	if _, err := ref.Set(ctx, toFirestore(issue)); err != nil {
		return domain.Issue{}, fmt.Errorf("save issue %q: %w", ref.ID, err)
	}

	issue.ID = ref.ID
	return issue, nil
}

func (f *FirestoreIssueRepository) UpdateStatus(ctx context.Context, id string, st domain.IssueStatus, at time.Time) error {
	_, err := f.client.Collection(issuesCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		return fmt.Errorf("update issue status %q: %w", id, mapFirestoreErr(err))
	}
	return nil
}

func (f *FirestoreIssueRepository) Delete(ctx context.Context, id string) error {
	_, err := f.client.Collection(issuesCollection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		return fmt.Errorf("delete issue %q: %w", id, mapFirestoreErr(err))
	}
	return nil
}

func (f *FirestoreIssueRepository) DeleteExpired(ctx context.Context, now time.Time) (n int, err error) {
	defer obs.Time(ctx, "firestore.issues.DeleteExpired")(&err)

	iter := f.client.Collection(issuesCollection).
		Where("expiresAt", "<=", now).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("delete expired issues: iterate documents: %w", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return n, fmt.Errorf("delete expired issues: delete %q: %w", doc.Ref.ID, err)
		}
		n++
	}

	return n, nil
}

func mapFirestoreErr(err error) error {
	if status.Code(err) == codes.NotFound {
		return ports.ErrIssueNotFound
	}
	return err
}

func toFirestore(i domain.Issue) firestoreIssue {
	points := make([]firestorePoint, 0, len(i.RoutePoints))
	for _, p := range i.RoutePoints {
		points = append(points, firestorePoint{Lat: p.Lat, Lng: p.Lng})
	}
	return firestoreIssue{
		Type:        string(i.Type),
		Title:       i.Title,
		Description: i.Description,
		RoutePoints: points,
		UserID:      i.UserID,
		DisplayName: i.DisplayName,
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
		ExpiresAt:   i.ExpiresAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func fromFirestore(id string, rec firestoreIssue) domain.Issue {
	points := make([]domain.Point, 0, len(rec.RoutePoints))
	for _, p := range rec.RoutePoints {
		points = append(points, domain.Point{Lat: p.Lat, Lng: p.Lng})
	}
	return domain.Issue{
		ID:          id,
		Type:        domain.IssueType(rec.Type),
		Title:       rec.Title,
		Description: rec.Description,
		RoutePoints: points,
		UserID:      rec.UserID,
		DisplayName: rec.DisplayName,
		Status:      domain.IssueStatus(rec.Status),
		CreatedAt:   rec.CreatedAt,
		ExpiresAt:   rec.ExpiresAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
