package http_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	handler "github.com/samirrijal/routedesk/internal/adapters/http"
)

func TestTracingMiddleware_ContinuesCallerTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	app := fiber.New()
	app.Use(handler.TracingMiddleware())
	app.Get("/trace", func(c *fiber.Ctx) error {
		return c.SendString(trace.SpanContextFromContext(c.UserContext()).TraceID().String())
	})

	req := httptest.NewRequest("GET", "/trace", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("expected caller trace id, got %q", body)
	}
}
