package ports

import "context"

// Identity extracted from a verified ID token.
type Caller struct {
	UID   string
	Admin bool
}

// Verifies a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (Caller, error)
}
