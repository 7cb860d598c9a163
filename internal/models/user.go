// Package models contains data structures for the application's domain entities.
//
// JSON field names match the documents already stored in the remote content
// repository, so an existing data repo stays readable by this server.
package models

import "time"

// User is a registered account. The password is kept verbatim in the persisted
// users collection; it must never leave the process inside an API payload, so
// every operation that returns a user goes through Sanitized first.
type User struct {
	ID            string            `json:"id"`
	Username      string            `json:"username"`
	Email         string            `json:"email"`
	Password      string            `json:"password,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	Builds        []string          `json:"builds"`
	ProfileImage  string            `json:"profileImage,omitempty"`
	ProfileBanner string            `json:"profileBanner,omitempty"`
	Bio           string            `json:"bio"`
	Location      string            `json:"location"`
	SocialLinks   map[string]string `json:"socialLinks"`
}

// Sanitized returns a copy of the user with the password stripped.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// Profile is the public view of a user: the sanitized account plus the
// reputation summary and per-collection activity counts.
type Profile struct {
	ID            string            `json:"id"`
	Username      string            `json:"username"`
	CreatedAt     time.Time         `json:"createdAt"`
	ProfileImage  string            `json:"profileImage,omitempty"`
	ProfileBanner string            `json:"profileBanner,omitempty"`
	Bio           string            `json:"bio"`
	Location      string            `json:"location"`
	SocialLinks   map[string]string `json:"socialLinks"`
	Reputation    ReputationSummary `json:"reputation"`
	Stats         ProfileStats      `json:"stats"`
}

// ProfileStats counts a user's visible activity. Listings counts active
// listings only.
type ProfileStats struct {
	Listings int `json:"listings"`
	Threads  int `json:"threads"`
	Builds   int `json:"builds"`
}
