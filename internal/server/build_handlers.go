package server

import (
	"rigforge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SaveBuild handles POST /api/builds
func (s *Server) SaveBuild(c *fiber.Ctx) error {
	var req struct {
		Name       string                      `json:"name"`
		Components map[string]models.BuildSlot `json:"components"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	build, err := s.store.SaveBuild(c.Context(), s.currentUserID(c), req.Name, req.Components)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(build)
}

// GetMyBuilds handles GET /api/builds
func (s *Server) GetMyBuilds(c *fiber.Ctx) error {
	builds, err := s.store.GetUserBuilds(c.Context(), s.currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(builds)
}

// GetUserBuildsHandler handles GET /api/users/:id/builds
func (s *Server) GetUserBuildsHandler(c *fiber.Ctx) error {
	userID, err := s.paramString(c, "id", "user ID")
	if err != nil {
		return nil
	}
	builds, sErr := s.store.GetUserBuilds(c.Context(), userID)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.JSON(builds)
}

// GetBuild handles GET /api/builds/:id
func (s *Server) GetBuild(c *fiber.Ctx) error {
	buildID, err := s.paramString(c, "id", "build ID")
	if err != nil {
		return nil
	}
	build, sErr := s.store.GetBuildByID(c.Context(), buildID)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.JSON(build)
}

// DeleteBuild handles DELETE /api/builds/:id. Deleting an absent build is not
// an error; the response reports whether anything was removed.
func (s *Server) DeleteBuild(c *fiber.Ctx) error {
	buildID, err := s.paramString(c, "id", "build ID")
	if err != nil {
		return nil
	}
	deleted, sErr := s.store.DeleteBuild(c.Context(), buildID)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
