package store

import (
	"context"
	"testing"

	"rigforge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateThread(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	user := registerUser(t, s, "poster")

	thread, err := s.CreateThread(ctx, user.ID, "cooling", "Best AIO under 100?", "Looking for something quiet.")
	require.NoError(t, err)
	assert.NotEmpty(t, thread.ID)
	assert.NotNil(t, thread.Comments)
	assert.Empty(t, thread.Comments)

	_, err = s.CreateThread(ctx, user.ID, "cooling", "", "content")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestGetThreadsByCategory(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	user := registerUser(t, s, "poster")

	_, err := s.CreateThread(ctx, user.ID, "cooling", "AIO thread", "a")
	require.NoError(t, err)
	_, err = s.CreateThread(ctx, user.ID, "general", "General thread", "b")
	require.NoError(t, err)

	cooling, err := s.GetThreadsByCategory(ctx, "cooling")
	require.NoError(t, err)
	require.Len(t, cooling, 1)
	assert.Equal(t, "AIO thread", cooling[0].Title)

	all, err := s.GetThreadsByCategory(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	empty, err := s.GetThreadsByCategory(ctx, "psu")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAddComment(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	op := registerUser(t, s, "original")
	replier := registerUser(t, s, "replier")

	thread, err := s.CreateThread(ctx, op.ID, "general", "hello", "first post")
	require.NoError(t, err)

	comment, err := s.AddComment(ctx, thread.ID, replier.ID, "welcome aboard")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)

	threads, err := s.GetThreadsByCategory(ctx, "general")
	require.NoError(t, err)
	require.Len(t, threads, 1)
	require.Len(t, threads[0].Comments, 1)
	assert.Equal(t, "welcome aboard", threads[0].Comments[0].Content)
}

func TestAddCommentUnknownThread(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.AddComment(context.Background(), "missing", "u1", "hi")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
