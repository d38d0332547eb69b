package observability

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler adapts the Prometheus scrape handler into the Fiber app.
// Registration is idempotent, so mounting it more than once is safe.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	scrape := promhttp.Handler()
	return adaptor.HTTPHandler(scrape)
}
