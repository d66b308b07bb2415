package geospatial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/pkg/geospatial"
)

func TestHaversine(t *testing.T) {
	// one degree of latitude is ~111.2 km
	d := geospatial.Haversine(domain.Coordinate{Lat: 37, Lng: 127}, domain.Coordinate{Lat: 38, Lng: 127})
	assert.InDelta(t, 111195, d, 50)
	assert.Zero(t, geospatial.Haversine(domain.Coordinate{Lat: 37, Lng: 127}, domain.Coordinate{Lat: 37, Lng: 127}))
}

func TestRouteLength(t *testing.T) {
	depot := domain.Coordinate{Lat: 37, Lng: 127}
	stops := []domain.Stop{
		{Coordinate: domain.Coordinate{Lat: 37.5, Lng: 127}},
		{Coordinate: domain.Coordinate{Lat: 38, Lng: 127}},
	}
	assert.InDelta(t, 111195, geospatial.RouteLength(depot, stops), 50)
	assert.Zero(t, geospatial.RouteLength(depot, nil))
}
