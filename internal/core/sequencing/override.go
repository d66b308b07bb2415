package sequencing

import (
	"fmt"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// Move takes the stop at index from out of the route and reinserts it at
// index to, shifting the stops in between. A new slice is returned.
func Move(stops []domain.Stop, from, to int) ([]domain.Stop, error) {
	n := len(stops)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("%w: from=%d to=%d with %d stops", domain.ErrInvalidMove, from, to, n)
	}

	out := make([]domain.Stop, 0, n)
	out = append(out, stops[:from]...)
	out = append(out, stops[from+1:]...)

	moved := stops[from]
	out = append(out, domain.Stop{})
	copy(out[to+1:], out[to:])
	out[to] = moved

	for i := range out {
		out[i].Position = i
	}
	return out, nil
}
