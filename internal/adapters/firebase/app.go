// Package firebase adapts the Firebase Admin SDK to the service ports:
// Firestore for issue storage, Auth for caller identity and FCM for route alerts.
package firebase

import (
	"context"
	"fmt"

	fb "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// NewApp initialises the Admin SDK. When credentialsFile is empty,
// application-default credentials are used.
func NewApp(ctx context.Context, projectID, credentialsFile string) (*fb.App, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase new app: %w", err)
	}
	return app, nil
}
