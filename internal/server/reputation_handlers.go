package server

import (
	"rigforge/internal/cache"
	"rigforge/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddReputation handles POST /api/users/:id/reputation
func (s *Server) AddReputation(c *fiber.Ctx) error {
	targetID, err := s.paramString(c, "id", "user ID")
	if err != nil {
		return nil
	}

	var req struct {
		Type    string `json:"type"`
		Comment string `json:"comment"`
	}
	if bErr := c.BodyParser(&req); bErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	summary, sErr := s.store.AddReputation(c.Context(), targetID, s.currentUserID(c), req.Type, req.Comment)
	if sErr != nil {
		return fail(c, sErr)
	}

	// Reputation counts are embedded in the cached profile.
	cache.InvalidateProfile(c.Context(), targetID)

	return c.Status(fiber.StatusCreated).JSON(summary)
}

// GetUserReputation handles GET /api/users/:id/reputation
func (s *Server) GetUserReputation(c *fiber.Ctx) error {
	userID, err := s.paramString(c, "id", "user ID")
	if err != nil {
		return nil
	}
	summary, sErr := s.store.GetUserReputation(c.Context(), userID)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.JSON(summary)
}
