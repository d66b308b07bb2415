// Package sequencing holds the pure route-building steps: grouping orders
// into stops, ordering stops from the depot, operator moves, and deriving
// per-order sequence numbers.
package sequencing

import "github.com/samirrijal/routedesk/internal/core/domain"

// Aggregate groups orders sharing an identical coordinate into stops.
// Orders without a coordinate are skipped. Stops come out in the order their
// first order was seen, and orders keep input order within a stop.
func Aggregate(orders []domain.Order) []domain.Stop {
	stops := make([]domain.Stop, 0, len(orders))
	index := make(map[domain.Coordinate]int, len(orders))

	for _, o := range orders {
		if o.Coordinate == nil {
			continue
		}
		key := *o.Coordinate
		if i, ok := index[key]; ok {
			stops[i].Orders = append(stops[i].Orders, o)
			continue
		}
		index[key] = len(stops)
		stops = append(stops, domain.Stop{
			Coordinate: key,
			Orders:     []domain.Order{o},
		})
	}

	for i := range stops {
		stops[i].Label = domain.StopLabel(stops[i].Orders)
		stops[i].Position = i
	}
	return stops
}
