package repositories

import (
	"encoding/json"
	"fmt"
	"road-issue-service/internal/domain"
)

type storedPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func encodeRoutePoints(points []domain.Point) (string, error) {
	stored := make([]storedPoint, 0, len(points))
	for _, p := range points {
		stored = append(stored, storedPoint{Lat: p.Lat, Lng: p.Lng})
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode route points: %w", err)
	}
	return string(b), nil
}

func decodeRoutePoints(raw []byte) ([]domain.Point, error) {
	if len(raw) == 0 {
		return []domain.Point{}, nil
	}
	var stored []storedPoint
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode route points: %w", err)
	}
	out := make([]domain.Point, 0, len(stored))
	for _, p := range stored {
		out = append(out, domain.Point{Lat: p.Lat, Lng: p.Lng})
	}
	return out, nil
}
