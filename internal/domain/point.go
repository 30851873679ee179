package domain

import "strconv"

// Immutable geographic point in decimal degrees (WGS84).
// Ranges are not validated; callers supply sane latitude/longitude values.
type Point struct {
	Lat float64
	Lng float64
}

// Return the point as [lng, lat] for GeoJSON-style external APIs.
func (p Point) CoordsToList() []float64 { return []float64{p.Lng, p.Lat} }

// String renders "lat,lng", the form accepted by most directions APIs.
func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}
