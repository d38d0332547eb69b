package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDLocal = "request_id"

type requestIDContextKey struct{}

// RequestID tags every request with an identifier so log lines and events can
// be tied back to the call that produced them. An identifier supplied by the
// caller is honored; otherwise a fresh one is minted and echoed back.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(requestIDLocal, id)
		c.Set(fiber.HeaderXRequestID, id)
		c.SetUserContext(context.WithValue(c.Context(), requestIDContextKey{}, id))

		return c.Next()
	}
}

// RequestIDFromContext returns the request identifier carried by ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

// GetRequestID returns the identifier bound to the active request.
func GetRequestID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(requestIDLocal).(string); ok && id != "" {
		return id
	}
	return RequestIDFromContext(c.Context())
}

// ContextWithRequestID attaches a request identifier to ctx so work detached
// from the HTTP request keeps the same trail.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDContextKey{}, id)
}
