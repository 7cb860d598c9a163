package server

import (
	"testing"

	"rigforge/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserProfile(t *testing.T) {
	app, srv, st, _ := newTestApp(t)
	user, token := signupUser(t, srv, st, "profileowner")

	// Seed some visible activity for the stats block.
	resp := doJSON(t, app, "POST", "/api/forum/threads", token, map[string]string{
		"category": "builds",
		"title":    "My first water loop",
		"content":  "Took a weekend, worth it.",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/builds/", token, map[string]any{
		"name":       "Loop rig",
		"components": map[string]any{},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "GET", "/api/users/"+user.ID+"/profile", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile models.Profile
	decodeBody(t, resp, &profile)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "profileowner", profile.Username)
	assert.Equal(t, 1, profile.Stats.Threads)
	assert.Equal(t, 1, profile.Stats.Builds)
	assert.Equal(t, 0, profile.Stats.Listings)
	assert.Equal(t, 0, profile.Reputation.Total)

	resp = doJSON(t, app, "GET", "/api/users/missing-user/profile", "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetMyProfile(t *testing.T) {
	app, srv, st, _ := newTestApp(t)
	user, token := signupUser(t, srv, st, "profileowner")

	resp := doJSON(t, app, "GET", "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile models.Profile
	decodeBody(t, resp, &profile)
	assert.Equal(t, user.ID, profile.ID)
}

func TestUpdateMyProfile(t *testing.T) {
	app, srv, st, _ := newTestApp(t)
	user, token := signupUser(t, srv, st, "profileowner")

	body := map[string]any{
		"bio":      "Small form factor enthusiast.",
		"location": "Lisbon",
		"socialLinks": map[string]string{
			"youtube": "https://youtube.com/@profileowner",
		},
	}

	resp := doJSON(t, app, "PUT", "/api/users/me/profile", "", body)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "PUT", "/api/users/me/profile", token, body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.User
	decodeBody(t, resp, &updated)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, "Small form factor enthusiast.", updated.Bio)
	assert.Equal(t, "Lisbon", updated.Location)
	assert.Equal(t, "https://youtube.com/@profileowner", updated.SocialLinks["youtube"])
	assert.Empty(t, updated.Password)

	// The public profile reflects the change.
	resp = doJSON(t, app, "GET", "/api/users/"+user.ID+"/profile", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var profile models.Profile
	decodeBody(t, resp, &profile)
	assert.Equal(t, "Lisbon", profile.Location)
}
