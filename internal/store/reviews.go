package store

import (
	"context"

	"rigforge/internal/models"
	"rigforge/internal/validation"
)

// AddReview records a rating for a component and persists the reviews
// collection. Reviews are keyed by component id.
func (s *Store) AddReview(ctx context.Context, componentID, userID string, rating int, comment string) (models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return models.Review{}, models.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Review{}, err
	}

	review := models.Review{
		ID:          newID(),
		UserID:      userID,
		ComponentID: componentID,
		Rating:      rating,
		Comment:     comment,
		CreatedAt:   now(),
	}

	if s.reviews == nil {
		s.reviews = map[string][]models.Review{}
	}
	s.reviews[componentID] = append(s.reviews[componentID], review)

	if err := s.persist(ctx, PathReviews, s.reviews); err != nil {
		return models.Review{}, err
	}
	return review, nil
}

// GetReviewsForComponent returns all reviews for a component, oldest first.
func (s *Store) GetReviewsForComponent(ctx context.Context, componentID string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	reviews := s.reviews[componentID]
	out := make([]models.Review, len(reviews))
	copy(out, reviews)
	return out, nil
}
