package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every handler writes, success or failure.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

func writeEnvelope(c *fiber.Ctx, status int, body APIResponse) error {
	return c.Status(status).JSON(body)
}

// SendSuccess writes a 200 envelope around the given payload.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus writes a success envelope with an explicit status code,
// falling back to 200 and a generic message when either is left unset.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	if message == "" {
		message = "success"
	}
	return writeEnvelope(c, status, APIResponse{Success: true, Data: data, Message: message})
}

// SendError writes a failure envelope; the data field is omitted.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}
	return writeEnvelope(c, status, APIResponse{Success: false, Message: message})
}
