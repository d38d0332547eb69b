package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/talentflow/talentflow-api/internal/middleware"
	"github.com/talentflow/talentflow-api/internal/service"
)

// EventsHandler wires the websocket endpoint dashboard clients subscribe to
// for live assessment and response updates.
type EventsHandler struct {
	service service.EventService
	logger  zerolog.Logger
}

// NewEventsHandler constructs the handler.
func NewEventsHandler(svc service.EventService, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		service: svc,
		logger:  logger.With().Str("component", "events_handler").Logger(),
	}
}

// Register binds the websocket upgrade under the provided router group.
func (h *EventsHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithRequestID(ctx, middleware.GetRequestID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
}

func (h *EventsHandler) handleConnection(conn *websocket.Conn) {
	h.logger.Debug().Msg("event stream client connected")
	h.service.ServeConnection(conn)
	h.logger.Debug().Msg("event stream client disconnected")
}
