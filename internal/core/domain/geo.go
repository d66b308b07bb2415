package domain

import "math"

// Coordinate represents a geographic coordinate (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Equal reports exact equality on both axes.
func (c Coordinate) Equal(o Coordinate) bool {
	return c.Lat == o.Lat && c.Lng == o.Lng
}

// PlanarDistance is the Euclidean distance on raw degrees. It is only
// meaningful for relative ordering of points within one metro area.
func (c Coordinate) PlanarDistance(o Coordinate) float64 {
	dLat := c.Lat - o.Lat
	dLng := c.Lng - o.Lng
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// Valid reports whether the coordinate lies within WGS 84 bounds.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Polyline is a drawable path for the map overlay.
type Polyline struct {
	Points []Coordinate `json:"points"`
	// Fallback is set when the path is straight segments between stops
	// instead of a road-following route.
	Fallback bool `json:"fallback"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsOf returns the box enclosing all points. ok is false for no points.
func BoundsOf(points ...Coordinate) (b Bounds, ok bool) {
	for i, p := range points {
		if i == 0 {
			b = Bounds{MinLat: p.Lat, MinLng: p.Lng, MaxLat: p.Lat, MaxLng: p.Lng}
			continue
		}
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}
	return b, len(points) > 0
}
