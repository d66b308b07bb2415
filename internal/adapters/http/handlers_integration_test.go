//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routedesk/internal/adapters/http"
	"github.com/samirrijal/routedesk/internal/adapters/memory"
	"github.com/samirrijal/routedesk/internal/adapters/postgres"
	"github.com/samirrijal/routedesk/internal/core/domain"
	"github.com/samirrijal/routedesk/internal/core/usecases"
	"github.com/samirrijal/routedesk/internal/pkg/config"
)

// setupTestDB connects to the test database, migrates it and seeds one
// driver's day with coordinates already resolved.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("routedesk-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, err := db.Pool.Exec(ctx, `
		DELETE FROM orders WHERE id LIKE 'hit-%';
		DELETE FROM drivers WHERE id LIKE 'hit-%';
		INSERT INTO drivers (id, name, center) VALUES ('hit-d1', 'Choi', 'yangju');
		INSERT INTO orders (id, customer_name, address, driver_id, delivery_date, lat, lng) VALUES
			('hit-o1', 'Kim',  'A', 'hit-d1', '2026-03-02', 37.10, 127.00),
			('hit-o2', 'Lee',  'A', 'hit-d1', '2026-03-02', 37.10, 127.00),
			('hit-o3', 'Park', 'B', 'hit-d1', '2026-03-02', 37.20, 127.10);
	`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func setupTestApp(t *testing.T, db *postgres.DB) *fiber.App {
	orders := postgres.NewOrderRepo(db)
	drivers := postgres.NewDriverRepo(db)

	// geocoder is never reached: every seeded order has a coordinate
	geocode := usecases.NewGeocodeService(nil, nil, 1, time.Second)

	deps := &http.Dependencies{
		Routes:     usecases.NewRouteService(orders, drivers, geocode, memory.NewDraftStore(time.Hour), nil, domain.Coordinate{Lat: 37, Lng: 127}),
		Directions: usecases.NewDirectionsService(nil, 0),
		Drivers:    usecases.NewDriverService(drivers),
		Status:     usecases.NewStatusService(orders, drivers, nil),
		Checks:     map[string]http.Pinger{"database": db},
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	http.SetupRoutes(app, deps)
	return app
}

func TestIntegration_PlanAndSave(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db)

	send := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set(http.HeaderUserID, "admin-1")
		req.Header.Set(http.HeaderUserRole, string(domain.RoleAdmin))
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		return resp.StatusCode
	}

	if code := send("GET", "/v1/drivers/hit-d1/routes/2026-03-02"); code != 200 {
		t.Fatalf("plan: expected 200, got %d", code)
	}
	if code := send("PUT", "/v1/drivers/hit-d1/routes/2026-03-02"); code != 200 {
		t.Fatalf("save: expected 200, got %d", code)
	}

	orders, err := postgres.NewOrderRepo(db).ListForDriverDay(context.Background(), "hit-d1", "2026-03-02")
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]int{}
	for _, o := range orders {
		got[o.ID] = o.Sequence
	}
	if got["hit-o1"] != 1 || got["hit-o2"] != 1 || got["hit-o3"] != 2 {
		t.Errorf("unexpected stored sequences: %v", got)
	}
}

func TestIntegration_Ready(t *testing.T) {
	app := setupTestApp(t, setupTestDB(t))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 || body.Checks["database"] != "ok" {
		t.Errorf("expected ready with database ok, got %d %+v", resp.StatusCode, body)
	}
}
