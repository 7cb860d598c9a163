package server

import (
	"rigforge/internal/cache"
	"rigforge/internal/models"
	"rigforge/internal/store"
	"rigforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/catalog/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	err := cache.CacheAside(c.Context(), cache.CatalogKey, &categories, cache.CatalogTTL, func() error {
		cats, err := s.store.GetCategories(c.Context())
		if err != nil {
			return err
		}
		categories = cats
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

// GetComponentsByCategory handles GET /api/catalog/categories/:categoryId/components
func (s *Server) GetComponentsByCategory(c *fiber.Ctx) error {
	categoryID, err := s.paramString(c, "categoryId", "category ID")
	if err != nil {
		return nil
	}
	components, sErr := s.store.GetComponentsByCategory(c.Context(), categoryID)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.JSON(components)
}

// GetComponent handles GET /api/catalog/categories/:categoryId/components/:componentId
func (s *Server) GetComponent(c *fiber.Ctx) error {
	categoryID, err := s.paramString(c, "categoryId", "category ID")
	if err != nil {
		return nil
	}
	componentID, err := s.paramString(c, "componentId", "component ID")
	if err != nil {
		return nil
	}
	component, sErr := s.store.GetComponentByID(c.Context(), categoryID, componentID)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.JSON(component)
}

// GetAvailableComponents handles GET /api/catalog/available
func (s *Server) GetAvailableComponents(c *fiber.Ctx) error {
	available, err := s.store.GetAvailableComponents(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(available)
}

// AddComponent handles POST /api/catalog/categories/:categoryId/components
func (s *Server) AddComponent(c *fiber.Ctx) error {
	categoryID, err := s.paramString(c, "categoryId", "category ID")
	if err != nil {
		return nil
	}

	var req struct {
		Name    string            `json:"name"`
		Specs   map[string]string `json:"specs"`
		Image   string            `json:"image"`
		Vendors []models.Vendor   `json:"vendors"`
	}
	if bErr := c.BodyParser(&req); bErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := store.AddComponentInput{
		Name:    req.Name,
		Specs:   req.Specs,
		Vendors: req.Vendors,
	}
	if req.Image != "" {
		uploaded, uErr := s.imageService.Upload(c.Context(), "component", req.Image)
		if uErr != nil {
			return fail(c, uErr)
		}
		in.Image = uploaded.Name
	}

	component, sErr := s.store.AddComponent(c.Context(), categoryID, in)
	if sErr != nil {
		return fail(c, sErr)
	}

	cache.Invalidate(c.Context(), cache.CatalogKey)

	return c.Status(fiber.StatusCreated).JSON(component)
}

// AddReview handles POST /api/catalog/components/:componentId/reviews
func (s *Server) AddReview(c *fiber.Ctx) error {
	componentID, err := s.paramString(c, "componentId", "component ID")
	if err != nil {
		return nil
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if bErr := c.BodyParser(&req); bErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if vErr := validation.ValidateRating(req.Rating); vErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(vErr.Error()))
	}

	review, sErr := s.store.AddReview(c.Context(), componentID, s.currentUserID(c), req.Rating, req.Comment)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetComponentReviews handles GET /api/catalog/components/:componentId/reviews
func (s *Server) GetComponentReviews(c *fiber.Ctx) error {
	componentID, err := s.paramString(c, "componentId", "component ID")
	if err != nil {
		return nil
	}
	reviews, sErr := s.store.GetReviewsForComponent(c.Context(), componentID)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.JSON(reviews)
}
