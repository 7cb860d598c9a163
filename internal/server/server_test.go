package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"rigforge/internal/config"
	"rigforge/internal/models"
	"rigforge/internal/store"
	"rigforge/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp builds a Server over an in-memory remote with no Redis and
// mounts the full route table on a fresh Fiber app.
func newTestApp(t *testing.T) (*fiber.App, *Server, *store.Store, *testutil.FakeRemote) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	remote := testutil.NewFakeRemote()
	st := store.New(remote)
	require.NoError(t, st.Initialize(context.Background()))

	cfg := &config.Config{
		JWTSecret: "test-secret-key",
		Env:       "test",
	}
	srv, err := NewServerWithDeps(cfg, st, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, srv, st, remote
}

// signupUser registers an account directly against the store and returns the
// user together with a valid bearer token.
func signupUser(t *testing.T, srv *Server, st *store.Store, username string) (models.User, string) {
	t.Helper()
	user, err := st.RegisterUser(context.Background(), username, username+"@example.com", "hunter22", "")
	require.NoError(t, err)
	token, err := srv.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

// doJSON issues a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestLivenessCheck(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "up", body["status"])
}

func TestReadinessCheck(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])

	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "healthy", checks["store"])
	// No Redis wired in tests; the API runs uncached.
	assert.Equal(t, "unavailable", checks["redis"])
}

func TestReadinessCheckUninitializedStore(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	remote := testutil.NewFakeRemote()
	st := store.New(remote) // Initialize intentionally skipped

	srv, err := NewServerWithDeps(&config.Config{JWTSecret: "test-secret-key"}, st, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)

	resp := doJSON(t, app, "GET", "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	app, srv, st, _ := newTestApp(t)
	user, token := signupUser(t, srv, st, "authuser")

	tests := []struct {
		name           string
		authorization  string
		query          string
		expectedStatus int
	}{
		{
			name:           "Missing token",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Malformed header",
			authorization:  "Token " + token,
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Garbage token",
			authorization:  "Bearer not.a.jwt",
			expectedStatus: fiber.StatusUnauthorized,
		},
		{
			name:           "Valid bearer token",
			authorization:  "Bearer " + token,
			expectedStatus: fiber.StatusOK,
		},
		{
			name:           "Token via query parameter",
			query:          "?token=" + token,
			expectedStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/users/me"+tt.query, nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	// The authenticated route resolves the caller from the token subject.
	resp := doJSON(t, app, "GET", "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var profile map[string]any
	decodeBody(t, resp, &profile)
	assert.Equal(t, user.Username, profile["username"])
}

func TestAuthRequiredRejectsForeignSignature(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	// Token signed with a different secret must not validate.
	otherSrv, err := NewServerWithDeps(&config.Config{JWTSecret: "another-secret"}, nil, nil)
	require.NoError(t, err)
	token, err := otherSrv.generateToken("some-user", "intruder")
	require.NoError(t, err)

	resp := doJSON(t, app, "GET", "/api/users/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestImageNameValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"Stored jpeg", "profile_abc123.jpg", true},
		{"Stored webp", "listing_abc123.webp", true},
		{"Empty", "", false},
		{"Traversal dots", "..secret.jpg", false},
		{"Backslash", `a\b.jpg`, false},
		{"Wrong extension", "profile_abc123.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, isValidImageName(tt.input))
		})
	}
}

func TestGetImageRedirectsToRawURL(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/api/images/profile_abc.jpg", "", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "profile_abc.jpg")

	resp = doJSON(t, app, "GET", "/api/images/..escape.jpg", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
