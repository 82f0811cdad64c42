package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parseID extracts a route parameter by name as a positive uint.
// Anything else is reported as a missing page, like an unknown id.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint(id), nil
}

// formBool reads a checkbox. Browsers omit unchecked boxes entirely.
func formBool(c *fiber.Ctx, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.FormValue(name))) {
	case "y", "yes", "on", "true", "1":
		return true
	default:
		return false
	}
}
