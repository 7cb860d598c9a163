package server

import (
	"rigforge/internal/cache"
	"rigforge/internal/models"
	"rigforge/internal/store"
	"rigforge/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateListing handles POST /api/marketplace/listings. Listing creation can
// be switched off (or rolled out gradually) via the "marketplace" flag.
func (s *Server) CreateListing(c *fiber.Ctx) error {
	if !s.flags.Enabled("marketplace", s.currentUserID(c), true) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			&models.AppError{Code: "FORBIDDEN", Message: "Marketplace listings are currently disabled"})
	}

	var req struct {
		CategoryID  string   `json:"categoryId"`
		ComponentID string   `json:"componentId"`
		Price       float64  `json:"price"`
		Condition   string   `json:"condition"`
		Description string   `json:"description"`
		Images      []string `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidatePrice(req.Price); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Listing photos arrive as base64 payloads and are stored by filename.
	imageNames := make([]string, 0, len(req.Images))
	for _, payload := range req.Images {
		if payload == "" {
			continue
		}
		uploaded, err := s.imageService.Upload(c.Context(), "listing", payload)
		if err != nil {
			return fail(c, err)
		}
		imageNames = append(imageNames, uploaded.Name)
	}

	listing, component, err := s.store.CreateListing(c.Context(), store.CreateListingInput{
		UserID:      s.currentUserID(c),
		CategoryID:  req.CategoryID,
		ComponentID: req.ComponentID,
		Price:       req.Price,
		Condition:   req.Condition,
		Description: req.Description,
		Images:      imageNames,
	})
	if err != nil {
		return fail(c, err)
	}

	cache.Invalidate(c.Context(), cache.ComponentKey(component.ID))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"listing":   listing,
		"component": component,
	})
}

// GetListings handles GET /api/marketplace/listings?category=<id|all>
func (s *Server) GetListings(c *fiber.Ctx) error {
	category := c.Query("category", "all")
	listings, err := s.store.GetListingsByCategory(c.Context(), category)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listings)
}

// GetListing handles GET /api/marketplace/listings/:id
func (s *Server) GetListing(c *fiber.Ctx) error {
	listingID, err := s.paramString(c, "id", "listing ID")
	if err != nil {
		return nil
	}

	var detail models.ListingDetail
	cErr := cache.CacheAside(c.Context(), cache.ListingKey(listingID), &detail, cache.ListingTTL, func() error {
		d, err := s.store.GetListingByID(c.Context(), listingID)
		if err != nil {
			return err
		}
		detail = d
		return nil
	})
	if cErr != nil {
		return fail(c, cErr)
	}
	return c.JSON(detail)
}

// GetMyListings handles GET /api/marketplace/listings/mine
func (s *Server) GetMyListings(c *fiber.Ctx) error {
	listings, err := s.store.GetUserListings(c.Context(), s.currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listings)
}

// GetUserListingsHandler handles GET /api/users/:id/listings
func (s *Server) GetUserListingsHandler(c *fiber.Ctx) error {
	userID, err := s.paramString(c, "id", "user ID")
	if err != nil {
		return nil
	}
	listings, sErr := s.store.GetUserListings(c.Context(), userID)
	if sErr != nil {
		return fail(c, sErr)
	}
	return c.JSON(listings)
}
