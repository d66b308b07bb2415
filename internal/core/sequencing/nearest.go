package sequencing

import "github.com/samirrijal/routedesk/internal/core/domain"

// NearestNeighbor orders stops greedily: starting at depot, it always visits
// the closest unvisited stop next. Distance is planar on raw degrees and ties
// go to the stop that appears first in the input. The input is not modified.
func NearestNeighbor(depot domain.Coordinate, stops []domain.Stop) []domain.Stop {
	unvisited := make([]domain.Stop, len(stops))
	copy(unvisited, stops)

	route := make([]domain.Stop, 0, len(stops))
	current := depot

	for len(unvisited) > 0 {
		closest := 0
		best := current.PlanarDistance(unvisited[0].Coordinate)
		for i := 1; i < len(unvisited); i++ {
			if d := current.PlanarDistance(unvisited[i].Coordinate); d < best {
				best = d
				closest = i
			}
		}

		next := unvisited[closest]
		unvisited = append(unvisited[:closest], unvisited[closest+1:]...)

		next.Position = len(route)
		route = append(route, next)
		current = next.Coordinate
	}
	return route
}
