package kakao

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// Directions implements ports.DirectionsProvider with Kakao Mobility.
type Directions struct {
	client *Client
}

// NewDirections creates a directions provider. baseURL defaults to
// DefaultMobilityURL when empty.
func NewDirections(baseURL, apiKey string, opts ...Option) *Directions {
	if baseURL == "" {
		baseURL = DefaultMobilityURL
	}
	return &Directions{client: newClient(baseURL, apiKey, opts...)}
}

type directionsResponse struct {
	Routes []struct {
		ResultCode int    `json:"result_code"`
		ResultMsg  string `json:"result_msg"`
		Sections   []struct {
			Roads []struct {
				// flat [x0, y0, x1, y1, ...]
				Vertexes []float64 `json:"vertexes"`
			} `json:"roads"`
		} `json:"sections"`
	} `json:"routes"`
}

func point(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// Directions returns the road vertices from origin through waypoints to destination.
func (d *Directions) Directions(ctx context.Context, origin, destination domain.Coordinate, waypoints []domain.Coordinate) ([]domain.Coordinate, error) {
	q := url.Values{}
	q.Set("origin", point(origin))
	q.Set("destination", point(destination))
	q.Set("priority", "RECOMMEND")
	if len(waypoints) > 0 {
		parts := make([]string, len(waypoints))
		for i, w := range waypoints {
			parts[i] = point(w)
		}
		q.Set("waypoints", strings.Join(parts, "|"))
	}

	var out directionsResponse
	if err := d.client.getJSON(ctx, "/v1/directions?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}
	if len(out.Routes) == 0 {
		return nil, nil
	}
	route := out.Routes[0]
	if route.ResultCode != 0 {
		return nil, fmt.Errorf("directions: result %d: %s", route.ResultCode, route.ResultMsg)
	}

	var path []domain.Coordinate
	for _, section := range route.Sections {
		for _, road := range section.Roads {
			for i := 0; i+1 < len(road.Vertexes); i += 2 {
				path = append(path, domain.Coordinate{Lat: road.Vertexes[i+1], Lng: road.Vertexes[i]})
			}
		}
	}
	return path, nil
}
