package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/platform/obs"
	"time"
)

// ORSDirectionsProvider implements RoutingProvider using the OpenRouteService
// directions API, asking for alternative routes so the ranker has candidates
// to choose between.
//
// The provider is safe for concurrent use.
type ORSDirectionsProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	opts    ORSOptions
}

// ORSOptions tunes alternative-route search. ShareFactor is the maximum
// fraction of a route an alternative may share; WeightFactor is how much
// longer than the optimum it may be. Zero values select 0.6 and 1.4.
type ORSOptions struct {
	Alternatives int
	ShareFactor  float64
	WeightFactor float64
}

func NewORSDirectionsProvider(apiKey string, opts ORSOptions) (*ORSDirectionsProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if opts.Alternatives < 1 {
		opts.Alternatives = 1
	}
	if opts.ShareFactor <= 0 || opts.ShareFactor > 1 {
		opts.ShareFactor = 0.6
	}
	if opts.WeightFactor <= 1 {
		opts.WeightFactor = 1.4
	}

	return &ORSDirectionsProvider{
		session: &http.Client{Timeout: 15 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		opts:    opts,
	}, nil
}

type alternativeRoutes struct {
	TargetCount  int     `json:"target_count"`
	ShareFactor  float64 `json:"share_factor"`
	WeightFactor float64 `json:"weight_factor"`
}

type directionsRequest struct {
	Coordinates       [][]float64        `json:"coordinates"`
	AlternativeRoutes *alternativeRoutes `json:"alternative_routes,omitempty"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// GetRoutes requests driving routes (with alternatives) between two points.
// A 404, or ORS error 2009/2010, means no routable path and yields an empty slice.
func (o *ORSDirectionsProvider) GetRoutes(
	ctx context.Context,
	from domain.Point,
	to domain.Point,
) (_ []domain.CandidateRoute, err error) {
	defer obs.Time(ctx, "ors.GetRoutes")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	bodyObj := directionsRequest{
		Coordinates: [][]float64{from.CoordsToList(), to.CoordsToList()},
	}
	if o.opts.Alternatives > 1 {
		bodyObj.AlternativeRoutes = &alternativeRoutes{
			TargetCount:  o.opts.Alternatives,
			ShareFactor:  o.opts.ShareFactor,
			WeightFactor: o.opts.WeightFactor,
		}
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.post(ctx, endpoint, payload)
	if err != nil {
		var oe *orsError
		if errors.As(err, &oe) && oe.noRoute() {
			return []domain.CandidateRoute{}, nil
		}
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	return decodeFeatures(dr)
}

func decodeFeatures(dr directionsResponse) ([]domain.CandidateRoute, error) {
	out := make([]domain.CandidateRoute, 0, len(dr.Features))
	for i, f := range dr.Features {
		coords := make([]domain.Point, 0, len(f.Geometry.Coordinates))
		for _, c := range f.Geometry.Coordinates {
			// GeoJSON positions are [lng, lat] with an optional elevation.
			if len(c) < 2 {
				return nil, fmt.Errorf("route %d: invalid coordinate %v", i, c)
			}
			coords = append(coords, domain.Point{Lat: c[1], Lng: c[0]})
		}

		out = append(out, domain.CandidateRoute{
			Coordinates: coords,
			Summary: domain.RouteSummary{
				TotalDistanceMeters: f.Properties.Summary.Distance,
				TotalTimeSeconds:    f.Properties.Summary.Duration,
			},
			OriginalIndex: i,
		})
	}
	return out, nil
}
