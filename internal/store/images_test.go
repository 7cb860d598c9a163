package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImage(t *testing.T) {
	s, remote := newTestStore(t)

	name, err := s.SaveImage(context.Background(), "profile", []byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "profile_"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	raw, ok := remote.Document("data/images/" + name)
	require.True(t, ok)

	var doc struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "base64", doc.Encoding)

	decoded, err := base64.StdEncoding.DecodeString(doc.Content)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, decoded)
}

func TestSaveImageRequiresData(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.SaveImage(context.Background(), "profile", nil)
	assert.Error(t, err)
}

func TestSaveImageVariant(t *testing.T) {
	s, remote := newTestStore(t)

	require.NoError(t, s.SaveImageVariant(context.Background(), "profile_x.webp", []byte{1, 2, 3}))
	_, ok := remote.Document("data/images/profile_x.webp")
	assert.True(t, ok)
}

func TestImageURL(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, "https://raw.example.test/data/images/p.jpg", s.ImageURL("p.jpg"))
}

func TestSaveImageNamesAreUnique(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a, err := s.SaveImage(ctx, "listing", []byte{1})
	require.NoError(t, err)
	b, err := s.SaveImage(ctx, "listing", []byte{1})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
