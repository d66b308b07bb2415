package sequencing

import "github.com/samirrijal/routedesk/internal/core/domain"

// Assign ranks stops 1..N in route order and gives every order in a stop
// that stop's rank.
func Assign(stops []domain.Stop) []domain.SequenceAssignment {
	var out []domain.SequenceAssignment
	for i, s := range stops {
		for _, o := range s.Orders {
			out = append(out, domain.SequenceAssignment{OrderID: o.ID, Sequence: i + 1})
		}
	}
	return out
}
