package server

import (
	"rigforge/internal/cache"
	"rigforge/internal/models"
	"rigforge/internal/store"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:id/profile.
// Profiles are cached in Redis with a short TTL; mutations invalidate the key.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.paramString(c, "id", "user ID")
	if err != nil {
		return nil
	}

	var profile models.Profile
	cErr := cache.CacheAside(c.Context(), cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		p, err := s.store.GetUserProfile(c.Context(), userID)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if cErr != nil {
		return fail(c, cErr)
	}

	return c.JSON(profile)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.store.GetUserProfile(c.Context(), s.currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me/profile
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Bio           string            `json:"bio"`
		Location      string            `json:"location"`
		SocialLinks   map[string]string `json:"socialLinks"`
		ProfileImage  string            `json:"profileImage"`
		ProfileBanner string            `json:"profileBanner"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := store.UpdateProfileInput{
		Bio:         req.Bio,
		Location:    req.Location,
		SocialLinks: req.SocialLinks,
	}

	// Image fields arrive as base64 payloads and are stored by filename.
	if req.ProfileImage != "" {
		uploaded, err := s.imageService.Upload(c.Context(), "profile", req.ProfileImage)
		if err != nil {
			return fail(c, err)
		}
		in.ProfileImage = uploaded.Name
	}
	if req.ProfileBanner != "" {
		uploaded, err := s.imageService.Upload(c.Context(), "banner", req.ProfileBanner)
		if err != nil {
			return fail(c, err)
		}
		in.ProfileBanner = uploaded.Name
	}

	userID := s.currentUserID(c)
	user, err := s.store.UpdateUserProfile(c.Context(), userID, in)
	if err != nil {
		return fail(c, err)
	}

	cache.InvalidateProfile(c.Context(), userID)

	return c.JSON(user)
}
