package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talentflow/talentflow-api/internal/config"
	"github.com/talentflow/talentflow-api/internal/handler"
	"github.com/talentflow/talentflow-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssessmentHandler *handler.AssessmentHandler
	ResponseHandler   *handler.ResponseHandler
	UploadHandler     *handler.UploadHandler
	EventsHandler     *handler.EventsHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.Register(api.Group("/assessments"))
	}

	if deps.ResponseHandler != nil {
		deps.ResponseHandler.Register(api.Group("/responses"))
	}

	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(api.Group("/uploads"))
	}

	if deps.EventsHandler != nil {
		deps.EventsHandler.Register(api.Group("/events"))
	}
}
