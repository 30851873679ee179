// Package geo contains pure geographic helpers used for spatial tests.
package geo

import (
	"math"

	"road-issue-service/internal/domain"
)

const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometres between two
// points using the haversine formula.
func DistanceKm(a, b domain.Point) float64 {
	dLat := ToRadians(b.Lat - a.Lat)
	dLng := ToRadians(b.Lng - a.Lng)

	rLat1 := ToRadians(a.Lat)
	rLat2 := ToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

func ToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
