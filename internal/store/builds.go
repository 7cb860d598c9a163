package store

import (
	"context"

	"rigforge/internal/models"
)

// SaveBuild stores a new build and appends its id to the owning user's build
// list. Two collections are touched; builds is persisted first, then users.
// If the second persist fails the first write has already committed remotely.
func (s *Store) SaveBuild(ctx context.Context, userID, name string, components map[string]models.BuildSlot) (models.Build, error) {
	if name == "" {
		return models.Build{}, models.NewValidationError("Build name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.Build{}, err
	}

	ts := now()
	build := models.Build{
		ID:         newID(),
		UserID:     userID,
		Name:       name,
		Components: components,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}

	s.builds = append(s.builds, build)
	if err := s.persist(ctx, PathBuilds, s.builds); err != nil {
		return models.Build{}, err
	}

	if idx := s.userIndex(userID); idx >= 0 {
		user := &s.users[idx]
		if user.Builds == nil {
			user.Builds = []string{}
		}
		user.Builds = append(user.Builds, build.ID)
		if err := s.persist(ctx, PathUsers, s.users); err != nil {
			return models.Build{}, err
		}
	}

	return build, nil
}

// DeleteBuild removes a build and detaches its id from the owning user. A
// missing build id returns ok=false with no error.
func (s *Store) DeleteBuild(ctx context.Context, buildID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return false, err
	}

	buildIdx := -1
	for i := range s.builds {
		if s.builds[i].ID == buildID {
			buildIdx = i
			break
		}
	}
	if buildIdx < 0 {
		return false, nil
	}

	build := s.builds[buildIdx]
	if idx := s.userIndex(build.UserID); idx >= 0 && s.users[idx].Builds != nil {
		user := &s.users[idx]
		kept := user.Builds[:0]
		for _, id := range user.Builds {
			if id != buildID {
				kept = append(kept, id)
			}
		}
		user.Builds = kept
		if err := s.persist(ctx, PathUsers, s.users); err != nil {
			return false, err
		}
	}

	s.builds = append(s.builds[:buildIdx], s.builds[buildIdx+1:]...)
	if err := s.persist(ctx, PathBuilds, s.builds); err != nil {
		return false, err
	}
	return true, nil
}

// GetUserBuilds returns every build owned by the user.
func (s *Store) GetUserBuilds(ctx context.Context, userID string) ([]models.Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	out := []models.Build{}
	for _, build := range s.builds {
		if build.UserID == userID {
			out = append(out, build)
		}
	}
	return out, nil
}

// GetBuildByID finds one build.
func (s *Store) GetBuildByID(ctx context.Context, buildID string) (models.Build, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return models.Build{}, err
	}

	for _, build := range s.builds {
		if build.ID == buildID {
			return build, nil
		}
	}
	return models.Build{}, models.NewNotFoundError("Build", buildID)
}
