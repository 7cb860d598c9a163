package store

import (
	"context"

	"rigforge/internal/models"
	"rigforge/internal/validation"
)

// GetCategories returns the category list.
func (s *Store) GetCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

// GetComponentsByCategory returns all components in a category. Unknown
// categories yield an empty list, not an error.
func (s *Store) GetComponentsByCategory(ctx context.Context, categoryID string) ([]models.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	components := s.components[categoryID]
	out := make([]models.Component, len(components))
	copy(out, components)
	return out, nil
}

// GetComponentByID finds one component within a category.
func (s *Store) GetComponentByID(ctx context.Context, categoryID, componentID string) (models.Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return models.Component{}, err
	}

	for _, component := range s.components[categoryID] {
		if component.ID == componentID {
			return component, nil
		}
	}
	return models.Component{}, models.NewNotFoundError("Component", componentID)
}

// AddComponentInput describes a new catalog entry.
type AddComponentInput struct {
	Name    string
	Specs   map[string]string
	Image   string
	Vendors []models.Vendor
}

// AddComponent appends a component to a category and persists the components
// collection.
func (s *Store) AddComponent(ctx context.Context, categoryID string, in AddComponentInput) (models.Component, error) {
	if in.Name == "" {
		return models.Component{}, models.NewValidationError("Component name is required")
	}
	for _, vendor := range in.Vendors {
		if err := validation.ValidatePrice(vendor.Price); err != nil {
			return models.Component{}, models.NewValidationError(err.Error())
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Component{}, err
	}

	component := models.Component{
		ID:      newID(),
		Name:    in.Name,
		Specs:   in.Specs,
		Image:   in.Image,
		Vendors: in.Vendors,
		AddedAt: now(),
	}

	if s.components == nil {
		s.components = map[string][]models.Component{}
	}
	s.components[categoryID] = append(s.components[categoryID], component)

	if err := s.persist(ctx, PathComponents, s.components); err != nil {
		return models.Component{}, err
	}
	return component, nil
}

// GetAvailableComponents returns the id/name/image projection of every
// component, grouped by category, for selection pickers.
func (s *Store) GetAvailableComponents(ctx context.Context) (map[string][]models.ComponentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	available := make(map[string][]models.ComponentSummary, len(s.components))
	for categoryID, components := range s.components {
		summaries := make([]models.ComponentSummary, 0, len(components))
		for _, component := range components {
			summaries = append(summaries, models.ComponentSummary{
				ID:    component.ID,
				Name:  component.Name,
				Image: component.Image,
			})
		}
		available[categoryID] = summaries
	}
	return available, nil
}
