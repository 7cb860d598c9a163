package store

import (
	"context"
	"fmt"

	"rigforge/internal/models"
	"rigforge/internal/validation"
)

// CreateListingInput describes a new marketplace listing. Images are
// already-stored filenames.
type CreateListingInput struct {
	UserID      string
	CategoryID  string
	ComponentID string
	Price       float64
	Condition   string
	Description string
	Images      []string
}

// CreateListing validates the linked component, stores the listing, and
// appends a synthetic marketplace vendor entry to the component. Two
// collections are persisted: listings first, then components. A failure on
// the second persist leaves the listings write committed.
func (s *Store) CreateListing(ctx context.Context, in CreateListingInput) (models.Listing, models.Component, error) {
	if in.ComponentID == "" {
		return models.Listing{}, models.Component{}, models.NewValidationError("Component selection is required")
	}
	if err := validation.ValidatePrice(in.Price); err != nil {
		return models.Listing{}, models.Component{}, models.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Listing{}, models.Component{}, err
	}

	componentIdx := -1
	for i := range s.components[in.CategoryID] {
		if s.components[in.CategoryID][i].ID == in.ComponentID {
			componentIdx = i
			break
		}
	}
	if componentIdx < 0 {
		return models.Listing{}, models.Component{}, models.NewNotFoundError("Component", in.ComponentID)
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}

	listing := models.Listing{
		ID:                  newID(),
		UserID:              in.UserID,
		ComponentID:         in.ComponentID,
		ComponentCategoryID: in.CategoryID,
		Price:               in.Price,
		Condition:           in.Condition,
		Description:         in.Description,
		Images:              images,
		CreatedAt:           now(),
		Status:              models.ListingStatusActive,
	}

	s.listings = append(s.listings, listing)
	if err := s.persist(ctx, PathListings, s.listings); err != nil {
		return models.Listing{}, models.Component{}, err
	}

	vendor := models.Vendor{
		ID:          fmt.Sprintf("vendor-marketplace-%s", listing.ID),
		Name:        fmt.Sprintf("%s (Marketplace)", s.usernameFor(in.UserID)),
		Price:       in.Price,
		URL:         fmt.Sprintf("#/marketplace/listing/%s", listing.ID),
		Marketplace: true,
		ListingID:   listing.ID,
	}

	component := &s.components[in.CategoryID][componentIdx]
	component.Vendors = append(component.Vendors, vendor)

	if err := s.persist(ctx, PathComponents, s.components); err != nil {
		return models.Listing{}, models.Component{}, err
	}

	return listing, *component, nil
}

// GetListingsByCategory returns active listings in a category; "all" returns
// every active listing.
func (s *Store) GetListingsByCategory(ctx context.Context, categoryID string) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	out := []models.Listing{}
	for _, listing := range s.listings {
		if listing.Status != models.ListingStatusActive {
			continue
		}
		if categoryID == "all" || listing.ComponentCategoryID == categoryID {
			out = append(out, listing)
		}
	}
	return out, nil
}

// GetListingByID returns a listing together with its linked component. A
// listing whose component has vanished still resolves, with a nil component.
func (s *Store) GetListingByID(ctx context.Context, listingID string) (models.ListingDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return models.ListingDetail{}, err
	}

	for _, listing := range s.listings {
		if listing.ID != listingID {
			continue
		}
		detail := models.ListingDetail{Listing: listing}
		for _, component := range s.components[listing.ComponentCategoryID] {
			if component.ID == listing.ComponentID {
				c := component
				detail.Component = &c
				break
			}
		}
		return detail, nil
	}
	return models.ListingDetail{}, models.NewNotFoundError("Listing", listingID)
}

// GetUserListings returns every listing the user created, regardless of
// status.
func (s *Store) GetUserListings(ctx context.Context, userID string) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	out := []models.Listing{}
	for _, listing := range s.listings {
		if listing.UserID == userID {
			out = append(out, listing)
		}
	}
	return out, nil
}
