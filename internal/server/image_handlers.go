package server

import (
	"strings"

	"rigforge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// isValidImageName checks that the name is a flat filename with an image
// extension. This prevents path traversal via crafted name parameters.
func isValidImageName(name string) bool {
	if name == "" || len(name) > 128 {
		return false
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	return strings.HasSuffix(name, ".jpg") || strings.HasSuffix(name, ".webp")
}

// GetImage handles GET /api/images/:name by redirecting to the raw content
// URL of the backing store. The store serves the bytes directly.
func (s *Server) GetImage(c *fiber.Ctx) error {
	name := c.Params("name")
	if !isValidImageName(name) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid image name"))
	}
	return c.Redirect(s.imageService.ImageURL(name), fiber.StatusFound)
}
