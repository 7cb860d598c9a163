// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"

	"rigforge/internal/gitstore"
)

// FakeRemote is an in-memory stand-in for the remote content store. It
// implements store.Remote and records every save for assertions.
type FakeRemote struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves []string

	// GetErr and SaveErr, when set, are returned by the corresponding
	// method for every path not already special-cased in FailPaths.
	GetErr  error
	SaveErr error

	// FailPaths maps a path to an error returned by both Get and Save.
	FailPaths map[string]error
}

// NewFakeRemote creates an empty in-memory remote.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{docs: make(map[string][]byte)}
}

// Seed stores a document without recording a save.
func (r *FakeRemote) Seed(path string, content []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[path] = append([]byte(nil), content...)
}

// Get returns the stored document or gitstore.ErrNotFound.
func (r *FakeRemote) Get(_ context.Context, path string) ([]byte, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.FailPaths[path]; ok {
		return nil, "", err
	}
	if r.GetErr != nil {
		return nil, "", r.GetErr
	}
	content, ok := r.docs[path]
	if !ok {
		return nil, "", gitstore.ErrNotFound
	}
	return append([]byte(nil), content...), "fake-sha", nil
}

// Save overwrites the stored document and records the path.
func (r *FakeRemote) Save(_ context.Context, path string, content []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.FailPaths[path]; ok {
		return err
	}
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.docs[path] = append([]byte(nil), content...)
	r.saves = append(r.saves, path)
	return nil
}

// DownloadURL returns a deterministic URL for assertions.
func (r *FakeRemote) DownloadURL(path string) string {
	return "https://raw.example.test/" + path
}

// Document returns the current stored bytes for a path.
func (r *FakeRemote) Document(path string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, ok := r.docs[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), content...), true
}

// Saves returns the ordered list of persisted paths.
func (r *FakeRemote) Saves() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saves...)
}

// SaveCount returns how many times the given path was persisted.
func (r *FakeRemote) SaveCount(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.saves {
		if p == path {
			n++
		}
	}
	return n
}

// PNGBytes renders a small solid PNG for image pipeline tests.
func PNGBytes(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
