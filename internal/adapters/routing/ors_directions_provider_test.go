package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"road-issue-service/internal/domain"
	"sync/atomic"
	"testing"
)

func newTestORS(t *testing.T, h http.HandlerFunc) *ORSDirectionsProvider {
	t.Helper()
	return newTestORSWith(t, ORSOptions{Alternatives: 3}, h)
}

func newTestORSWith(t *testing.T, opts ORSOptions, h http.HandlerFunc) *ORSDirectionsProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := NewORSDirectionsProvider("test-key", opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.baseURL = srv.URL
	return p
}

func TestORSGetRoutesDecodesAlternatives(t *testing.T) {
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/directions/driving-car/geojson" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("missing api key header")
		}

		var req directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Coordinates) != 2 || req.Coordinates[0][0] != 30.0619 || req.Coordinates[0][1] != -1.9441 {
			t.Errorf("coordinates = %v, want [lng, lat] pairs", req.Coordinates)
		}
		if ar := req.AlternativeRoutes; ar == nil || ar.TargetCount != 3 || ar.ShareFactor != 0.6 || ar.WeightFactor != 1.4 {
			t.Errorf("alternative routes not requested with defaults: %+v", req.AlternativeRoutes)
		}

		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[
			{"geometry":{"coordinates":[[30.0619,-1.9441],[30.1,-1.95],[30.1395,-1.9686]]},
			 "properties":{"summary":{"distance":10500.5,"duration":900.2}}},
			{"geometry":{"coordinates":[[30.0619,-1.9441],[30.1395,-1.9686]]},
			 "properties":{"summary":{"distance":12000,"duration":1100}}}
		]}`))
	})

	routes, err := p.GetRoutes(context.Background(),
		domain.Point{Lat: -1.9441, Lng: 30.0619},
		domain.Point{Lat: -1.9686, Lng: 30.1395},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(routes))
	}
	if routes[0].OriginalIndex != 0 || routes[1].OriginalIndex != 1 {
		t.Errorf("original indices = %d,%d", routes[0].OriginalIndex, routes[1].OriginalIndex)
	}
	if len(routes[0].Coordinates) != 3 || routes[0].Coordinates[1] != (domain.Point{Lat: -1.95, Lng: 30.1}) {
		t.Errorf("coordinates = %v", routes[0].Coordinates)
	}
	if routes[0].Summary.TotalTimeSeconds != 900.2 || routes[0].Summary.TotalDistanceMeters != 10500.5 {
		t.Errorf("summary = %+v", routes[0].Summary)
	}
}

func TestORSGetRoutesNotFoundIsEmpty(t *testing.T) {
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":2010}}`, http.StatusNotFound)
	})

	routes, err := p.GetRoutes(context.Background(), domain.Point{}, domain.Point{Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("routes = %d, want 0", len(routes))
	}
}

func TestORSGetRoutesRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[[30,-1.9]]},"properties":{"summary":{"distance":1,"duration":2}}}]}`))
	})

	routes, err := p.GetRoutes(context.Background(), domain.Point{}, domain.Point{Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(routes))
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestORSGetRoutesClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	})

	if _, err := p.GetRoutes(context.Background(), domain.Point{}, domain.Point{Lat: 1, Lng: 1}); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestORSGetRoutesRouteNotFoundCodeIsEmpty(t *testing.T) {
	var calls atomic.Int32
	p := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":2009,"message":"Route could not be found"}}`))
	})

	routes, err := p.GetRoutes(context.Background(), domain.Point{}, domain.Point{Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("routes = %d, want 0", len(routes))
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestORSGetRoutesSendsConfiguredFactors(t *testing.T) {
	p := newTestORSWith(t, ORSOptions{Alternatives: 2, ShareFactor: 0.5, WeightFactor: 2}, func(w http.ResponseWriter, r *http.Request) {
		var req directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if ar := req.AlternativeRoutes; ar == nil || ar.TargetCount != 2 || ar.ShareFactor != 0.5 || ar.WeightFactor != 2 {
			t.Errorf("alternative routes = %+v", req.AlternativeRoutes)
		}
		_, _ = w.Write([]byte(`{"features":[]}`))
	})

	if _, err := p.GetRoutes(context.Background(), domain.Point{}, domain.Point{Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestORSSingleRouteOmitsAlternatives(t *testing.T) {
	p := newTestORSWith(t, ORSOptions{}, func(w http.ResponseWriter, r *http.Request) {
		var req directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.AlternativeRoutes != nil {
			t.Errorf("alternative routes = %+v, want none", req.AlternativeRoutes)
		}
		_, _ = w.Write([]byte(`{"features":[]}`))
	})

	if _, err := p.GetRoutes(context.Background(), domain.Point{}, domain.Point{Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseORSError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    int
		message string
		noRoute bool
		retry   bool
	}{
		{"detail object", 404, `{"error":{"code":2010,"message":"Could not find routable point"}}`, 2010, "Could not find routable point", true, false},
		{"route not found on 400", 400, `{"error":{"code":2009,"message":"Route could not be found"}}`, 2009, "Route could not be found", true, false},
		{"string error", 403, `{"error":"Access to this API has been disallowed"}`, 0, "Access to this API has been disallowed", false, false},
		{"plain text", 502, "bad gateway", 0, "bad gateway", false, true},
		{"rate limited", 429, `{"error":{"code":0,"message":"Rate limit exceeded"}}`, 0, "Rate limit exceeded", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := parseORSError(tt.status, []byte(tt.body))
			if e.Code != tt.code || e.Message != tt.message {
				t.Errorf("parsed = %+v", e)
			}
			if e.noRoute() != tt.noRoute {
				t.Errorf("noRoute = %v, want %v", e.noRoute(), tt.noRoute)
			}
			if retryable(e) != tt.retry {
				t.Errorf("retryable = %v, want %v", retryable(e), tt.retry)
			}
		})
	}
}
