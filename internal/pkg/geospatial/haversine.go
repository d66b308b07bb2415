package geospatial

import (
	"math"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(a, b domain.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c * 1000 // meters
}

// PathLength sums the leg distances along points, in meters.
func PathLength(points []domain.Coordinate) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Haversine(points[i-1], points[i])
	}
	return total
}

// RouteLength is the as-the-crow-flies length of a route from the depot
// through its stops, in meters. It is a display estimate only; sequencing
// uses planar distance.
func RouteLength(depot domain.Coordinate, stops []domain.Stop) float64 {
	points := make([]domain.Coordinate, 0, len(stops)+1)
	points = append(points, depot)
	for _, s := range stops {
		points = append(points, s.Coordinate)
	}
	return PathLength(points)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
