package geo

import (
	"math"

	"road-issue-service/internal/domain"
)

// Axis-aligned lat/lng rectangle. Bounds are inclusive.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// SegmentBounds returns the smallest box containing both endpoints.
// Identical endpoints yield a zero-area box.
func SegmentBounds(a, b domain.Point) BoundingBox {
	return BoundingBox{
		MinLat: math.Min(a.Lat, b.Lat),
		MaxLat: math.Max(a.Lat, b.Lat),
		MinLng: math.Min(a.Lng, b.Lng),
		MaxLng: math.Max(a.Lng, b.Lng),
	}
}

// Expand grows the box by buffer degrees on all four sides.
func (b BoundingBox) Expand(buffer float64) BoundingBox {
	return BoundingBox{
		MinLat: b.MinLat - buffer,
		MaxLat: b.MaxLat + buffer,
		MinLng: b.MinLng - buffer,
		MaxLng: b.MaxLng + buffer,
	}
}

func (b BoundingBox) Contains(p domain.Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}
