package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags handles GET /api/users/me/flags. Clients use the evaluated
// snapshot to hide surfaces that are rolled out gradually.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.flags.Snapshot(s.currentUserID(c)),
	})
}
