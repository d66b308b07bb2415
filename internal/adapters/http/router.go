package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/routedesk/internal/pkg/metrics"
)

const (
	requestTimeout = 15 * time.Second
	// planning geocodes every order of the day
	planTimeout = 45 * time.Second
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(TracingMiddleware())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 300 requests per minute per IP; an editing session
	// issues a burst of moves.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no session, no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	SetupDocs(app)

	v1 := app.Group("/v1", SessionMiddleware())
	v1.Get("/drivers", timeout.NewWithContext(ListDriversHandler(deps), requestTimeout))
	v1.Get("/drivers/:driverID", timeout.NewWithContext(GetDriverHandler(deps), requestTimeout))

	routes := v1.Group("/drivers/:driverID/routes/:date")
	routes.Get("/", timeout.NewWithContext(PlanRouteHandler(deps), planTimeout))
	routes.Put("/", timeout.NewWithContext(SaveRouteHandler(deps), requestTimeout))
	routes.Delete("/", timeout.NewWithContext(DiscardRouteHandler(deps), requestTimeout))
	routes.Get("/draft", timeout.NewWithContext(CurrentRouteHandler(deps), requestTimeout))
	routes.Post("/moves", timeout.NewWithContext(MoveStopHandler(deps), requestTimeout))
	routes.Get("/path", timeout.NewWithContext(RoutePathHandler(deps), planTimeout))

	v1.Get("/menus", timeout.NewWithContext(MenusHandler(deps), requestTimeout))

	v1.Get("/orders", timeout.NewWithContext(ListOrdersHandler(deps), requestTimeout))
	v1.Post("/orders/assignments", timeout.NewWithContext(ReassignOrdersHandler(deps), requestTimeout))
	v1.Get("/orders/:orderID", timeout.NewWithContext(GetOrderHandler(deps), requestTimeout))
	v1.Post("/orders/:orderID/status", timeout.NewWithContext(UpdateStatusHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", SessionMiddleware(), timeout.NewWithContext(GraphQLHandler(deps), planTimeout))

	// WebSocket
	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
