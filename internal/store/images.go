package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"rigforge/internal/models"
)

// imageDocument is the stored wrapper for binary assets: transport-safe text
// content plus its encoding, written as its own document.
type imageDocument struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// SaveImage writes an encoded image under the shared image directory using a
// generated filename and returns that filename. Images are not mirrored in
// memory; owning records store only the filename.
func (s *Store) SaveImage(ctx context.Context, prefix string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", models.NewValidationError("Image data is required")
	}

	s.mu.RLock()
	err := s.ready()
	s.mu.RUnlock()
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.jpg", prefix, newID())
	doc := imageDocument{
		Content:  base64.StdEncoding.EncodeToString(data),
		Encoding: "base64",
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if err := s.remote.Save(ctx, imageDir+"/"+name, raw); err != nil {
		return "", err
	}
	return name, nil
}

// SaveImageVariant writes an alternate rendition of an already-saved image
// under an explicit filename, for callers that derive companion encodings.
func (s *Store) SaveImageVariant(ctx context.Context, name string, data []byte) error {
	if len(data) == 0 {
		return models.NewValidationError("Image data is required")
	}

	s.mu.RLock()
	err := s.ready()
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	doc := imageDocument{
		Content:  base64.StdEncoding.EncodeToString(data),
		Encoding: "base64",
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return models.NewInternalError(err)
	}
	return s.remote.Save(ctx, imageDir+"/"+name, raw)
}

// ImageURL reconstructs the fetch URL for a stored image filename by
// convention: store host plus the fixed image directory plus the filename.
func (s *Store) ImageURL(name string) string {
	return s.remote.DownloadURL(imageDir + "/" + name)
}
