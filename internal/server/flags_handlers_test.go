package server

import (
	"context"
	"testing"

	"rigforge/internal/config"
	"rigforge/internal/store"
	"rigforge/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlaggedApp(t *testing.T, flags string) (*fiber.App, *Server, *store.Store) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	st := store.New(testutil.NewFakeRemote())
	require.NoError(t, st.Initialize(context.Background()))

	srv, err := NewServerWithDeps(&config.Config{
		JWTSecret:    "test-secret-key",
		Env:          "test",
		FeatureFlags: flags,
	}, st, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, srv, st
}

func TestGetFeatureFlags(t *testing.T) {
	app, srv, st := newFlaggedApp(t, "marketplace=on,webp_variants=off")
	_, token := signupUser(t, srv, st, "flagwatcher")

	resp := doJSON(t, app, "GET", "/api/users/me/flags", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Flags map[string]bool `json:"flags"`
	}
	decodeBody(t, resp, &body)
	assert.True(t, body.Flags["marketplace"])
	assert.False(t, body.Flags["webp_variants"])
}

func TestCreateListingDisabledByFlag(t *testing.T) {
	app, srv, st := newFlaggedApp(t, "marketplace=off")
	_, token := signupUser(t, srv, st, "sellerperson")
	component := addComponent(t, st, "gpu", "RTX 5080")

	resp := doJSON(t, app, "POST", "/api/marketplace/listings", token, map[string]any{
		"categoryId":  "gpu",
		"componentId": component.ID,
		"price":       650.0,
		"condition":   "used-good",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Browsing stays available while creation is off.
	resp = doJSON(t, app, "GET", "/api/marketplace/listings", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
