package store

import (
	"context"

	"rigforge/internal/models"
)

// CreateThread starts a new forum topic and persists the threads collection.
func (s *Store) CreateThread(ctx context.Context, userID, category, title, content string) (models.Thread, error) {
	if title == "" {
		return models.Thread{}, models.NewValidationError("Thread title is required")
	}
	if content == "" {
		return models.Thread{}, models.NewValidationError("Thread content is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Thread{}, err
	}

	thread := models.Thread{
		ID:        newID(),
		UserID:    userID,
		Category:  category,
		Title:     title,
		Content:   content,
		CreatedAt: now(),
		Comments:  []models.Comment{},
	}

	s.threads = append(s.threads, thread)
	if err := s.persist(ctx, PathThreads, s.threads); err != nil {
		return models.Thread{}, err
	}
	return thread, nil
}

// GetThreadsByCategory returns threads tagged with the given category;
// "all" returns everything.
func (s *Store) GetThreadsByCategory(ctx context.Context, category string) ([]models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	if category == "all" {
		out := make([]models.Thread, len(s.threads))
		copy(out, s.threads)
		return out, nil
	}

	out := []models.Thread{}
	for _, thread := range s.threads {
		if thread.Category == category {
			out = append(out, thread)
		}
	}
	return out, nil
}

// AddComment appends a reply to a thread and persists the threads collection.
func (s *Store) AddComment(ctx context.Context, threadID, userID, content string) (models.Comment, error) {
	if content == "" {
		return models.Comment{}, models.NewValidationError("Comment content is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Comment{}, err
	}

	threadIdx := -1
	for i := range s.threads {
		if s.threads[i].ID == threadID {
			threadIdx = i
			break
		}
	}
	if threadIdx < 0 {
		return models.Comment{}, models.NewNotFoundError("Thread", threadID)
	}

	comment := models.Comment{
		ID:        newID(),
		UserID:    userID,
		Content:   content,
		CreatedAt: now(),
	}

	s.threads[threadIdx].Comments = append(s.threads[threadIdx].Comments, comment)
	if err := s.persist(ctx, PathThreads, s.threads); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}
