package handlers

import (
	"strconv"
	"time"

	"financer/internal/dto"
	"financer/pkg/middleware"

	"github.com/gofiber/fiber/v2"
)

func getUserID(c *fiber.Ctx) (int64, error) {
	userID, ok := c.Locals(middleware.LocalUserID).(int64)
	if !ok || userID <= 0 {
		return 0, fiber.ErrUnauthorized
	}
	return userID, nil
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
