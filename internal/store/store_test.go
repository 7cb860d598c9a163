package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"rigforge/internal/models"
	"rigforge/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *testutil.FakeRemote) {
	t.Helper()
	remote := testutil.NewFakeRemote()
	s := New(remote)
	require.NoError(t, s.Initialize(context.Background()))
	return s, remote
}

// registerUser is a shorthand for store tests that need an account.
func registerUser(t *testing.T, s *Store, username string) models.User {
	t.Helper()
	user, err := s.RegisterUser(context.Background(), username, username+"@example.com", "hunter22", "")
	require.NoError(t, err)
	return user
}

func TestInitializeSeedsMissingCollections(t *testing.T) {
	remote := testutil.NewFakeRemote()
	s := New(remote)
	require.NoError(t, s.Initialize(context.Background()))
	assert.True(t, s.Initialized())

	for _, path := range []string{
		PathCategories, PathComponents, PathUsers, PathThreads,
		PathListings, PathBuilds, PathReviews, PathReputation, PathChat,
	} {
		assert.Equal(t, 1, remote.SaveCount(path), "expected %s to be seeded exactly once", path)
	}

	// Categories carry the hardcoded default list.
	raw, ok := remote.Document(PathCategories)
	require.True(t, ok)
	var categories []models.Category
	require.NoError(t, json.Unmarshal(raw, &categories))
	assert.Len(t, categories, 24)
	assert.Equal(t, "cpu", categories[0].ID)

	// Slice collections seed as [] rather than null.
	raw, ok = remote.Document(PathUsers)
	require.True(t, ok)
	assert.Equal(t, "[]", string(raw))

	// Components seed one empty bucket per category.
	raw, ok = remote.Document(PathComponents)
	require.True(t, ok)
	var components map[string][]models.Component
	require.NoError(t, json.Unmarshal(raw, &components))
	assert.Len(t, components, 24)
}

func TestInitializeKeepsExistingDocuments(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.Seed(PathCategories, []byte(`[{"id":"gpu","name":"GPU"}]`))

	s := New(remote)
	require.NoError(t, s.Initialize(context.Background()))

	categories, err := s.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "gpu", categories[0].ID)

	// An existing document is never overwritten during load.
	assert.Equal(t, 0, remote.SaveCount(PathCategories))
}

func TestInitializeIsIdempotent(t *testing.T) {
	s, remote := newTestStore(t)
	saves := len(remote.Saves())
	require.NoError(t, s.Initialize(context.Background()))
	assert.Equal(t, saves, len(remote.Saves()))
}

func TestInitializePropagatesTransportErrors(t *testing.T) {
	remote := testutil.NewFakeRemote()
	bang := errors.New("remote exploded")
	remote.FailPaths = map[string]error{PathUsers: bang}

	s := New(remote)
	err := s.Initialize(context.Background())
	require.ErrorIs(t, err, bang)
	assert.False(t, s.Initialized())
}

func TestAccessorsFailBeforeInitialize(t *testing.T) {
	s := New(testutil.NewFakeRemote())
	ctx := context.Background()

	_, err := s.GetCategories(ctx)
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.RegisterUser(ctx, "someone", "someone@example.com", "hunter22", "")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = s.GetUserConversations(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestPersistWritesWholeCollection(t *testing.T) {
	s, remote := newTestStore(t)

	registerUser(t, s, "first")
	registerUser(t, s, "second")

	raw, ok := remote.Document(PathUsers)
	require.True(t, ok)
	var users []models.User
	require.NoError(t, json.Unmarshal(raw, &users))
	require.Len(t, users, 2, "each mutation rewrites the full document")
	assert.Equal(t, "first", users[0].Username)
	assert.Equal(t, "second", users[1].Username)
}

func TestMutationFailurePropagates(t *testing.T) {
	s, remote := newTestStore(t)
	bang := errors.New("write refused")
	remote.FailPaths = map[string]error{PathThreads: bang}

	user := registerUser(t, s, "author")
	_, err := s.CreateThread(context.Background(), user.ID, "general", "title", "content")
	assert.ErrorIs(t, err, bang)
}
