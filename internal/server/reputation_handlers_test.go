package server

import (
	"testing"

	"rigforge/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReputation(t *testing.T) {
	app, srv, st, _ := newTestApp(t)
	target, targetToken := signupUser(t, srv, st, "trustedseller")
	rater, raterToken := signupUser(t, srv, st, "happybuyer")

	body := map[string]string{
		"type":    "positive",
		"comment": "Shipped fast, part as described.",
	}

	resp := doJSON(t, app, "POST", "/api/users/"+target.ID+"/reputation", "", body)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/users/"+target.ID+"/reputation", raterToken, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var summary models.ReputationSummary
	decodeBody(t, resp, &summary)
	assert.Equal(t, 1, summary.Positive)
	assert.Equal(t, 0, summary.Negative)
	assert.Equal(t, 1, summary.Total)
	require.Len(t, summary.Feedbacks, 1)
	assert.Equal(t, rater.ID, summary.Feedbacks[0].UserID)
	assert.Equal(t, "happybuyer", summary.Feedbacks[0].Username)

	// One rating per rater per target, regardless of polarity.
	resp = doJSON(t, app, "POST", "/api/users/"+target.ID+"/reputation", raterToken, map[string]string{
		"type":    "negative",
		"comment": "Changed my mind.",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Self-rating is rejected.
	resp = doJSON(t, app, "POST", "/api/users/"+target.ID+"/reputation", targetToken, body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Unknown feedback type is rejected.
	resp = doJSON(t, app, "POST", "/api/users/"+target.ID+"/reputation", raterToken, map[string]string{
		"type":    "neutral",
		"comment": "meh",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetUserReputation(t *testing.T) {
	app, srv, st, _ := newTestApp(t)
	target, _ := signupUser(t, srv, st, "trustedseller")
	_, raterToken := signupUser(t, srv, st, "happybuyer")

	// No feedback yet: a zeroed summary, not an error.
	resp := doJSON(t, app, "GET", "/api/users/"+target.ID+"/reputation", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var summary models.ReputationSummary
	decodeBody(t, resp, &summary)
	assert.Equal(t, 0, summary.Total)
	assert.NotNil(t, summary.Feedbacks)

	resp = doJSON(t, app, "POST", "/api/users/"+target.ID+"/reputation", raterToken, map[string]string{
		"type":    "positive",
		"comment": "Great trade.",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "GET", "/api/users/"+target.ID+"/reputation", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &summary)
	assert.Equal(t, 1, summary.Positive)
	assert.Equal(t, 1, summary.Total)
}
