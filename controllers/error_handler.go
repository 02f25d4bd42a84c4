package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"hackportal/utils"
)

// ErrorHandler is the last stop for errors handlers did not turn into a
// page or redirect. Storage failures end up here as a generic 500.
func ErrorHandler(log *logrus.Entry) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return utils.ErrorResponse(c, fiberErr.Code, fiberErr.Message)
		}

		utils.LogError(log, "request_failed", err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"ip":     c.IP(),
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}
}
