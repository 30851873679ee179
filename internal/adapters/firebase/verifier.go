package firebase

import (
	"context"
	"fmt"
	"road-issue-service/internal/ports"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
)

// Custom claim granting moderation rights over issues.
const adminClaim = "admin"

type Verifier struct {
	client *auth.Client
}

func NewVerifier(ctx context.Context, app *fb.App) (*Verifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &Verifier{client: client}, nil
}

func (v *Verifier) Verify(ctx context.Context, idToken string) (ports.Caller, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return ports.Caller{}, fmt.Errorf("verify id token: %w", err)
	}
	return callerFromToken(token), nil
}

func callerFromToken(token *auth.Token) ports.Caller {
	admin, _ := token.Claims[adminClaim].(bool)
	return ports.Caller{UID: token.UID, Admin: admin}
}
