package routing

import (
	"context"
	"fmt"
	"road-issue-service/internal/domain"
	"road-issue-service/internal/platform/obs"
	"strings"

	"googlemaps.github.io/maps"
)

// GoogleDirectionsProvider implements RoutingProvider with the Google Maps
// Directions API. Route geometry comes from each route's overview polyline.
type GoogleDirectionsProvider struct {
	client *maps.Client
	region string
}

func NewGoogleDirectionsProvider(apiKey string) (*GoogleDirectionsProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleDirectionsProvider{client: client, region: "rw"}, nil
}

func (g *GoogleDirectionsProvider) GetRoutes(ctx context.Context, from, to domain.Point) (_ []domain.CandidateRoute, err error) {
	defer obs.Time(ctx, "google.GetRoutes")(&err)

	r := &maps.DirectionsRequest{
		Origin:       from.String(),
		Destination:  to.String(),
		Mode:         maps.TravelModeDriving,
		Alternatives: true,
		Region:       g.region,
	}

	routes, _, err := g.client.Directions(ctx, r)
	if err != nil {
		// ZERO_RESULTS is reported as an error by the client; treat it as no route.
		if isZeroResults(err) {
			return []domain.CandidateRoute{}, nil
		}
		return nil, fmt.Errorf("maps api error: %w", err)
	}

	return convertRoutes(routes)
}

func convertRoutes(routes []maps.Route) ([]domain.CandidateRoute, error) {
	out := make([]domain.CandidateRoute, 0, len(routes))
	for i, route := range routes {
		latlngs, err := route.OverviewPolyline.Decode()
		if err != nil {
			return nil, fmt.Errorf("decode polyline for route %d: %w", i, err)
		}

		coords := make([]domain.Point, 0, len(latlngs))
		for _, ll := range latlngs {
			coords = append(coords, domain.Point{Lat: ll.Lat, Lng: ll.Lng})
		}

		var meters, seconds float64
		for _, leg := range route.Legs {
			meters += float64(leg.Distance.Meters)
			seconds += leg.Duration.Seconds()
		}

		out = append(out, domain.CandidateRoute{
			Coordinates: coords,
			Summary: domain.RouteSummary{
				TotalDistanceMeters: meters,
				TotalTimeSeconds:    seconds,
			},
			OriginalIndex: i,
		})
	}
	return out, nil
}

func isZeroResults(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ZERO_RESULTS")
}
