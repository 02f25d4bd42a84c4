package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse answers non-page failures (unknown routes, unhandled errors)
// with the JSON error envelope.
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"status":  status,
		"error":   message,
	})
}

// SuccessResponse wraps data in the JSON success envelope.
func SuccessResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}
