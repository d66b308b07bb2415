package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/routedesk/internal/adapters/http"
	"github.com/samirrijal/routedesk/internal/adapters/kakao"
	"github.com/samirrijal/routedesk/internal/adapters/memory"
	natsadapter "github.com/samirrijal/routedesk/internal/adapters/nats"
	"github.com/samirrijal/routedesk/internal/adapters/postgres"
	"github.com/samirrijal/routedesk/internal/adapters/valkey"
	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/ports"
	"github.com/samirrijal/routedesk/internal/core/usecases"
	"github.com/samirrijal/routedesk/internal/pkg/config"
	"github.com/samirrijal/routedesk/internal/pkg/logging"
	"github.com/samirrijal/routedesk/internal/pkg/metrics"
	"github.com/samirrijal/routedesk/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("routedesk-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	checks := map[string]http.Pinger{"database": db}
	draftTTL := time.Duration(cfg.Server.DraftTTL) * time.Minute

	// Cache and drafts. Without Valkey, drafts live in this process only.
	var (
		cache  ports.CacheService
		drafts ports.DraftStore
	)
	vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Prefix)
	if err != nil {
		slog.Warn("valkey unavailable, keeping drafts in memory", "error", err)
		drafts = memory.NewDraftStore(draftTTL)
	} else {
		defer vc.Close()
		cache = vc
		drafts = valkey.NewDraftStore(vc, draftTTL)
		checks["cache"] = vc
	}

	// NATS
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events will not be published", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
		checks["nats"] = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Map provider
	rate := kakao.WithRateLimit(cfg.Kakao.RatePerSec, int(cfg.Kakao.RatePerSec))
	geocoder := kakao.NewGeocoder(cfg.Kakao.LocalURL, cfg.Kakao.RESTKey, rate)
	directions := kakao.NewDirections(cfg.Kakao.MobilityURL, cfg.Kakao.RESTKey, rate)

	// Repos
	orderRepo := postgres.NewOrderRepo(db)
	driverRepo := postgres.NewDriverRepo(db)

	// Use cases
	geocodeSvc := usecases.NewGeocodeService(geocoder, cache, cfg.Geocode.Concurrency, cfg.Geocode.TimeoutDuration()).
		WithCacheTTL(time.Duration(cfg.Geocode.CacheTTL) * time.Hour)
	depot := domain.Coordinate{Lat: cfg.Depot.Lat, Lng: cfg.Depot.Lng}

	deps := &http.Dependencies{
		Routes:     usecases.NewRouteService(orderRepo, driverRepo, geocodeSvc, drafts, publisher, depot),
		Directions: usecases.NewDirectionsService(directions, 0),
		Drivers:    usecases.NewDriverService(driverRepo),
		Status:     usecases.NewStatusService(orderRepo, driverRepo, publisher),
		Orders:     usecases.NewOrderService(orderRepo, driverRepo),
		Menus:      usecases.NewMenuService(postgres.NewMenuRepo(db)),
		NATS:       natsConn,
		Checks:     checks,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "RouteDesk API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, X-User-ID, X-User-Role, X-User-Centers",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		}
	}
}
