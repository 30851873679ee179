package routing

import (
	"context"
	"fmt"
	"road-issue-service/internal/domain"
)

type MockRoute struct {
	From, To domain.Point
	Routes   []domain.CandidateRoute
}

// MockRoutingProvider serves fixed candidate routes per origin/destination pair.
type MockRoutingProvider struct {
	m     map[string][]domain.CandidateRoute
	Calls int
}

func NewMockRoutingProvider(entries []MockRoute) *MockRoutingProvider {
	m := make(map[string][]domain.CandidateRoute, len(entries))
	for _, e := range entries {
		m[e.From.String()+"|"+e.To.String()] = e.Routes
	}
	return &MockRoutingProvider{m: m}
}

func (p *MockRoutingProvider) GetRoutes(ctx context.Context, from, to domain.Point) ([]domain.CandidateRoute, error) {
	p.Calls++
	r, ok := p.m[from.String()+"|"+to.String()]
	if !ok {
		return nil, fmt.Errorf("missing routes %s -> %s", from, to)
	}

	out := make([]domain.CandidateRoute, len(r))
	for i, route := range r {
		route.OriginalIndex = i
		out[i] = route
	}
	return out, nil
}
