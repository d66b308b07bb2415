package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routedesk/internal/core/usecases"
)

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Routes     *usecases.RouteService
	Directions *usecases.DirectionsService
	Drivers    *usecases.DriverService
	Status     *usecases.StatusService
	Orders     *usecases.OrderService
	Menus      *usecases.MenuService
	// NATS feeds the WebSocket relay; nil disables /ws.
	NATS *nats.Conn
	// Checks are probed by /v1/ready, keyed by component name.
	Checks map[string]Pinger
}
