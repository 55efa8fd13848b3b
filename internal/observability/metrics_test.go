package observability

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsDispatchCollectors(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()

	metrics.IncNotificationCreated("reminder", "EMAIL")
	metrics.IncDispatch("email", true)
	metrics.IncDispatch("email", false)
	metrics.ObserveDispatchDuration("email", 120*time.Millisecond)
	metrics.SetDueQueueSize(7)

	if got := testutil.ToFloat64(metrics.notificationsCreatedTotal.WithLabelValues("reminder", "email")); got != 1 {
		t.Fatalf("notifications_created_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.dispatchTotal.WithLabelValues("email", "success")); got != 1 {
		t.Fatalf("dispatch success total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.dispatchTotal.WithLabelValues("email", "failure")); got != 1 {
		t.Fatalf("dispatch failure total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.dueQueueSize); got != 7 {
		t.Fatalf("due queue size = %v, want 7", got)
	}
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	t.Parallel()

	var metrics *Metrics
	metrics.IncNotificationCreated("reminder", "email")
	metrics.IncDispatch("email", true)
	metrics.ObserveDispatchDuration("email", time.Second)
	metrics.SetDueQueueSize(1)
}

func TestMetricsHTTPMiddlewareRecordsRequest(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/livez", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/livez", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/livez", "200")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}

func TestMetricsHTTPMiddlewareRecordsErrorStatus(t *testing.T) {
	t.Parallel()

	metrics := NewMetrics()
	app := fiber.New()
	app.Use(metrics.HTTPMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	_, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	if got := testutil.ToFloat64(metrics.httpRequestsTotal.WithLabelValues("GET", "/boom", "500")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
}
