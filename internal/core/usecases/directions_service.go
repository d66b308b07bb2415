package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
	"github.com/samirrijal/routedesk/internal/pkg/metrics"
)

// The directions provider accepts at most 6 points per request, so the
// route is walked in overlapping windows.
const (
	directionsChunkSize   = 6
	directionsChunkStride = 5
)

// DirectionsService draws the map path for a route.
type DirectionsService struct {
	provider ports.DirectionsProvider
	timeout  time.Duration
}

// NewDirectionsService creates a DirectionsService. provider may be nil, in
// which case every overlay is a straight-line path.
func NewDirectionsService(provider ports.DirectionsProvider, timeout time.Duration) *DirectionsService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DirectionsService{provider: provider, timeout: timeout}
}

// Overlay returns a road-following path between consecutive stops. The depot
// is not part of the path. Any provider failure degrades the whole overlay to
// straight segments; Overlay itself never fails.
func (s *DirectionsService) Overlay(ctx context.Context, stops []domain.Stop) domain.Polyline {
	if len(stops) < 2 {
		return domain.Polyline{Points: []domain.Coordinate{}}
	}

	points := make([]domain.Coordinate, len(stops))
	for i, st := range stops {
		points[i] = st.Coordinate
	}

	if s.provider == nil {
		return straightLine(points)
	}

	var path []domain.Coordinate
	for _, chunk := range chunkPoints(points) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		vertices, err := s.provider.Directions(callCtx, chunk[0], chunk[len(chunk)-1], chunk[1:len(chunk)-1])
		cancel()
		// A partial road path is never drawn.
		if err != nil {
			slog.WarnContext(ctx, "directions failed, drawing straight lines", "points", len(chunk), "error", err)
			metrics.DirectionsFallbacks.Inc()
			return straightLine(points)
		}
		path = append(path, vertices...)
	}

	if len(path) == 0 {
		metrics.DirectionsFallbacks.Inc()
		return straightLine(points)
	}
	return domain.Polyline{Points: path}
}

// chunkPoints splits points into windows of up to directionsChunkSize where
// each window starts on the previous window's last point.
func chunkPoints(points []domain.Coordinate) [][]domain.Coordinate {
	var chunks [][]domain.Coordinate
	for i := 0; i < len(points)-1; i += directionsChunkStride {
		end := i + directionsChunkSize
		if end > len(points) {
			end = len(points)
		}
		if end-i < 2 {
			break
		}
		chunks = append(chunks, points[i:end])
	}
	return chunks
}

func straightLine(points []domain.Coordinate) domain.Polyline {
	out := make([]domain.Coordinate, len(points))
	copy(out, points)
	return domain.Polyline{Points: out, Fallback: true}
}
