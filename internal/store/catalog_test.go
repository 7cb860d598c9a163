package store

import (
	"context"
	"testing"

	"rigforge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetComponentsByCategoryUnknownIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	components, err := s.GetComponentsByCategory(context.Background(), "no-such-category")
	require.NoError(t, err)
	assert.Empty(t, components)
}

func TestAddComponent(t *testing.T) {
	s, remote := newTestStore(t)
	ctx := context.Background()

	component, err := s.AddComponent(ctx, "cpu", AddComponentInput{
		Name:  "Ryzen 7 9800X",
		Specs: map[string]string{"cores": "8"},
		Vendors: []models.Vendor{
			{ID: "v1", Name: "PartsHut", Price: 399.99, URL: "https://partshut.example/ryzen"},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, component.ID)
	assert.False(t, component.AddedAt.IsZero())

	components, err := s.GetComponentsByCategory(ctx, "cpu")
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, "Ryzen 7 9800X", components[0].Name)

	assert.GreaterOrEqual(t, remote.SaveCount(PathComponents), 1)
}

func TestAddComponentValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddComponent(ctx, "cpu", AddComponentInput{})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	_, err = s.AddComponent(ctx, "cpu", AddComponentInput{
		Name:    "Freebie",
		Vendors: []models.Vendor{{ID: "v1", Name: "Zero", Price: 0}},
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestAddComponentCreatesCategoryBucket(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	// Unknown categories get a bucket on first write rather than an error.
	_, err := s.AddComponent(ctx, "vr-headset", AddComponentInput{Name: "Index 2"})
	require.NoError(t, err)

	components, err := s.GetComponentsByCategory(ctx, "vr-headset")
	require.NoError(t, err)
	assert.Len(t, components, 1)
}

func TestGetComponentByID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	component, err := s.AddComponent(ctx, "memory", AddComponentInput{Name: "32GB DDR5"})
	require.NoError(t, err)

	found, err := s.GetComponentByID(ctx, "memory", component.ID)
	require.NoError(t, err)
	assert.Equal(t, component.ID, found.ID)

	_, err = s.GetComponentByID(ctx, "memory", "missing")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// The category scopes the lookup.
	_, err = s.GetComponentByID(ctx, "cpu", component.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestGetAvailableComponentsProjection(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	component, err := s.AddComponent(ctx, "storage", AddComponentInput{
		Name:  "2TB NVMe",
		Image: "component_abc.jpg",
		Specs: map[string]string{"interface": "PCIe 5.0"},
	})
	require.NoError(t, err)

	available, err := s.GetAvailableComponents(ctx)
	require.NoError(t, err)
	summaries := available["storage"]
	require.Len(t, summaries, 1)
	assert.Equal(t, models.ComponentSummary{
		ID:    component.ID,
		Name:  "2TB NVMe",
		Image: "component_abc.jpg",
	}, summaries[0])
}

func TestReviews(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	user := registerUser(t, s, "reviewer")

	component, err := s.AddComponent(ctx, "cpu", AddComponentInput{Name: "Ryzen 5"})
	require.NoError(t, err)

	_, err = s.AddReview(ctx, component.ID, user.ID, 6, "too good")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	review, err := s.AddReview(ctx, component.ID, user.ID, 5, "great chip")
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)

	reviews, err := s.GetReviewsForComponent(ctx, component.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "great chip", reviews[0].Comment)

	none, err := s.GetReviewsForComponent(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}
