package store

import (
	"context"
	"sort"

	"rigforge/internal/models"
)

// AddReputation records one rater-to-target feedback entry. Self-rating and
// duplicate ratings for the same pair are rejected before any mutation or
// network call. Returns the refreshed summary for the target.
func (s *Store) AddReputation(ctx context.Context, targetUserID, fromUserID, feedbackType, comment string) (models.ReputationSummary, error) {
	if targetUserID == fromUserID {
		return models.ReputationSummary{}, models.NewValidationError("You cannot rate yourself")
	}
	if feedbackType != models.ReputationPositive && feedbackType != models.ReputationNegative {
		return models.ReputationSummary{}, models.NewValidationError("Feedback type must be positive or negative")
	}
	if comment == "" {
		return models.ReputationSummary{}, models.NewValidationError("Feedback comment is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.ReputationSummary{}, err
	}

	record := s.reputations[targetUserID]
	if record == nil {
		record = &models.ReputationRecord{
			Positive: []models.ReputationEntry{},
			Negative: []models.ReputationEntry{},
		}
		s.reputations[targetUserID] = record
	}

	for _, entry := range record.Positive {
		if entry.UserID == fromUserID {
			return models.ReputationSummary{}, models.NewConflictError("You have already rated this user")
		}
	}
	for _, entry := range record.Negative {
		if entry.UserID == fromUserID {
			return models.ReputationSummary{}, models.NewConflictError("You have already rated this user")
		}
	}

	entry := models.ReputationEntry{
		UserID:    fromUserID,
		Comment:   comment,
		CreatedAt: now(),
	}

	if feedbackType == models.ReputationPositive {
		record.Positive = append(record.Positive, entry)
	} else {
		record.Negative = append(record.Negative, entry)
	}

	if err := s.persist(ctx, PathReputation, s.reputations); err != nil {
		return models.ReputationSummary{}, err
	}

	return s.reputationSummary(targetUserID), nil
}

// GetUserReputation returns the derived reputation aggregate for a user. A
// user with no records gets a zeroed summary.
func (s *Store) GetUserReputation(ctx context.Context, userID string) (models.ReputationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return models.ReputationSummary{}, err
	}
	return s.reputationSummary(userID), nil
}

// reputationSummary computes counts, total, and the username-annotated feed
// sorted newest-first. Callers must hold the lock.
func (s *Store) reputationSummary(userID string) models.ReputationSummary {
	record := s.reputations[userID]
	if record == nil {
		return models.ReputationSummary{Feedbacks: []models.ReputationFeedback{}}
	}

	feedbacks := make([]models.ReputationFeedback, 0, len(record.Positive)+len(record.Negative))
	for _, entry := range record.Positive {
		feedbacks = append(feedbacks, models.ReputationFeedback{
			ReputationEntry: entry,
			Type:            models.ReputationPositive,
			Username:        s.usernameFor(entry.UserID),
		})
	}
	for _, entry := range record.Negative {
		feedbacks = append(feedbacks, models.ReputationFeedback{
			ReputationEntry: entry,
			Type:            models.ReputationNegative,
			Username:        s.usernameFor(entry.UserID),
		})
	}

	sort.SliceStable(feedbacks, func(i, j int) bool {
		return feedbacks[i].CreatedAt.After(feedbacks[j].CreatedAt)
	})

	positive := len(record.Positive)
	negative := len(record.Negative)
	return models.ReputationSummary{
		Positive:  positive,
		Negative:  negative,
		Total:     positive - negative,
		Feedbacks: feedbacks,
	}
}
