package repositories

import (
	"context"
	"errors"
	"fmt"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/platform/obs"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const pointsCollection = "userPoints"

type firestorePoints struct {
	UserID         string    `firestore:"userId"`
	DisplayName    string    `firestore:"displayName"`
	Points         int       `firestore:"points"`
	IssuesReported int       `firestore:"issuesReported"`
	CreatedAt      time.Time `firestore:"createdAt"`
	LastUpdated    time.Time `firestore:"lastUpdated"`
}

// Firestore-backed PointsRepository, one document per user keyed by UID.
type FirestorePointsRepository struct {
	client *firestore.Client
}

func NewFirestorePointsRepository(client *firestore.Client) *FirestorePointsRepository {
	return &FirestorePointsRepository{client: client}
}

func (f *FirestorePointsRepository) Award(ctx context.Context, userID, displayName string, points int, at time.Time) (err error) {
	defer obs.Time(ctx, "firestore.points.Award")(&err)

	ref := f.client.Collection(pointsCollection).Doc(userID)

	err = f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return tx.Set(ref, firestorePoints{
				UserID:         userID,
				DisplayName:    displayName,
				Points:         points,
				IssuesReported: 1,
				CreatedAt:      at,
				LastUpdated:    at,
			})
		}
		if err != nil {
			return err
		}

		updates := []firestore.Update{
			{Path: "points", Value: firestore.Increment(points)},
			{Path: "issuesReported", Value: firestore.Increment(1)},
			{Path: "lastUpdated", Value: at},
		}
		if displayName != "" {
			updates = append(updates, firestore.Update{Path: "displayName", Value: displayName})
		}
		return tx.Update(ref, updates)
	})
	if err != nil {
		return fmt.Errorf("award points to %q: %w", userID, err)
	}
	return nil
}

func (f *FirestorePointsRepository) Get(ctx context.Context, userID string) (domain.UserPoints, error) {
	snap, err := f.client.Collection(pointsCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.UserPoints{UserID: userID}, nil
	}
	if err != nil {
		return domain.UserPoints{}, fmt.Errorf("get points for %q: %w", userID, err)
	}

	var rec firestorePoints
	if err := snap.DataTo(&rec); err != nil {
		return domain.UserPoints{}, fmt.Errorf("decode points for %q: %w", userID, err)
	}
	return fromFirestorePoints(snap.Ref.ID, rec), nil
}

func (f *FirestorePointsRepository) Leaderboard(ctx context.Context, limit int) (_ []domain.UserPoints, err error) {
	defer obs.Time(ctx, "firestore.points.Leaderboard")(&err)

	iter := f.client.Collection(pointsCollection).
		OrderBy("points", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	out := make([]domain.UserPoints, 0, limit)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leaderboard: iterate documents: %w", err)
		}

		var rec firestorePoints
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("leaderboard: decode %q: %w", doc.Ref.ID, err)
		}
		out = append(out, fromFirestorePoints(doc.Ref.ID, rec))
	}
	return out, nil
}

func fromFirestorePoints(id string, rec firestorePoints) domain.UserPoints {
	uid := rec.UserID
	if uid == "" {
		uid = id
	}
	return domain.UserPoints{
		UserID:         uid,
		DisplayName:    rec.DisplayName,
		Points:         rec.Points,
		IssuesReported: rec.IssuesReported,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.LastUpdated,
	}
}
