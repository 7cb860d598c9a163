package store

import (
	"context"

	"rigforge/internal/models"
	"rigforge/internal/validation"
)

// RegisterUser appends a new account to the users collection and persists it.
// Duplicate emails are permitted; login disambiguates by password match.
// profileImage is the already-stored image filename, or empty.
func (s *Store) RegisterUser(ctx context.Context, username, email, password, profileImage string) (models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return models.User{}, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return models.User{}, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return models.User{}, models.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           newID(),
		Username:     username,
		Email:        email,
		Password:     password,
		CreatedAt:    now(),
		Builds:       []string{},
		ProfileImage: profileImage,
		SocialLinks:  map[string]string{},
	}

	s.users = append(s.users, user)
	if err := s.persist(ctx, PathUsers, s.users); err != nil {
		return models.User{}, err
	}

	return user.Sanitized(), nil
}

// LoginUser returns the user whose email and plaintext password both match.
// The password comparison is deliberately plaintext; credential hardening is
// out of contract.
func (s *Store) LoginUser(ctx context.Context, email, password string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return models.User{}, err
	}

	for _, user := range s.users {
		if user.Email == email && user.Password == password {
			return user.Sanitized(), nil
		}
	}
	return models.User{}, models.NewUnauthorizedError("Invalid email or password")
}

// UpdateProfileInput carries profile mutations. Empty fields keep the prior
// values; image fields are already-stored filenames.
type UpdateProfileInput struct {
	Bio           string
	Location      string
	SocialLinks   map[string]string
	ProfileImage  string
	ProfileBanner string
}

// UpdateUserProfile mutates the user's profile fields in place and persists
// the users collection.
func (s *Store) UpdateUserProfile(ctx context.Context, userID string, in UpdateProfileInput) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return models.User{}, err
	}

	idx := s.userIndex(userID)
	if idx < 0 {
		return models.User{}, models.NewNotFoundError("User", userID)
	}

	user := &s.users[idx]
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.Location != "" {
		user.Location = in.Location
	}
	if in.SocialLinks != nil {
		user.SocialLinks = in.SocialLinks
	}
	if in.ProfileImage != "" {
		user.ProfileImage = in.ProfileImage
	}
	if in.ProfileBanner != "" {
		user.ProfileBanner = in.ProfileBanner
	}

	if err := s.persist(ctx, PathUsers, s.users); err != nil {
		return models.User{}, err
	}
	return user.Sanitized(), nil
}

// GetUserProfile assembles the public profile: sanitized account fields, the
// reputation summary, and activity counts (active listings only).
func (s *Store) GetUserProfile(ctx context.Context, userID string) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(); err != nil {
		return models.Profile{}, err
	}

	idx := s.userIndex(userID)
	if idx < 0 {
		return models.Profile{}, models.NewNotFoundError("User", userID)
	}
	user := s.users[idx]

	listings := 0
	for _, l := range s.listings {
		if l.UserID == userID && l.Status == models.ListingStatusActive {
			listings++
		}
	}
	threads := 0
	for _, t := range s.threads {
		if t.UserID == userID {
			threads++
		}
	}
	builds := 0
	for _, b := range s.builds {
		if b.UserID == userID {
			builds++
		}
	}

	return models.Profile{
		ID:            user.ID,
		Username:      user.Username,
		CreatedAt:     user.CreatedAt,
		ProfileImage:  user.ProfileImage,
		ProfileBanner: user.ProfileBanner,
		Bio:           user.Bio,
		Location:      user.Location,
		SocialLinks:   user.SocialLinks,
		Reputation:    s.reputationSummary(userID),
		Stats: models.ProfileStats{
			Listings: listings,
			Threads:  threads,
			Builds:   builds,
		},
	}, nil
}

// userIndex returns the position of the user in the collection, or -1.
// Callers must hold the lock.
func (s *Store) userIndex(userID string) int {
	for i := range s.users {
		if s.users[i].ID == userID {
			return i
		}
	}
	return -1
}

// usernameFor resolves a user id to its username, falling back to the
// original "Unknown User" placeholder. Callers must hold the lock.
func (s *Store) usernameFor(userID string) string {
	if idx := s.userIndex(userID); idx >= 0 {
		return s.users[idx].Username
	}
	return "Unknown User"
}
