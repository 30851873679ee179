package handlers

import (
	"context"
	"road-issue-service/internal/ports"
)

type callerKey struct{}

// WithCaller attaches a verified caller to the request context.
func WithCaller(ctx context.Context, c ports.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func CallerFrom(ctx context.Context) (ports.Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(ports.Caller)
	return c, ok
}
