// Package store implements the collection layer over the remote content
// store: nine named JSON documents mirrored in memory, populated once at
// startup and kept coherent with local mutations only. Every mutator
// serializes the entire affected collection and overwrites its remote
// document; concurrent writers in other processes are not coordinated with
// (last write wins at the storage layer).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"rigforge/internal/gitstore"
	"rigforge/internal/models"
	"rigforge/internal/observability"

	"github.com/google/uuid"
)

// Collection document paths in the backing repository.
const (
	PathCategories = "data/categories.json"
	PathComponents = "data/components.json"
	PathUsers      = "data/users.json"
	PathThreads    = "data/forum_threads.json"
	PathListings   = "data/marketplace_listings.json"
	PathBuilds     = "data/saved_builds.json"
	PathReviews    = "data/component_reviews.json"
	PathReputation = "data/user_reputations.json"
	PathChat       = "data/chat_messages.json"

	imageDir = "data/images"
)

// ErrNotInitialized is returned by every accessor called before Initialize
// has completed.
var ErrNotInitialized = errors.New("store: not initialized")

// Remote is the persistence transport the store writes through. Get returns
// ErrNotFound-compatible errors for missing documents; Save overwrites the
// full document content, attaching the last-seen version marker best-effort.
type Remote interface {
	Get(ctx context.Context, path string) ([]byte, string, error)
	Save(ctx context.Context, path string, content []byte) error
	DownloadURL(path string) string
}

// Store owns the in-memory mirror of all collections. All methods are safe
// for concurrent use; writes serialize so the in-memory state and the remote
// documents move together.
type Store struct {
	remote Remote

	mu          sync.RWMutex
	initialized bool

	categories   []models.Category
	components   map[string][]models.Component
	users        []models.User
	threads      []models.Thread
	listings     []models.Listing
	builds       []models.Build
	reviews      map[string][]models.Review
	reputations  map[string]*models.ReputationRecord
	chatMessages []models.ChatMessage
}

// New creates a Store over the given remote. Initialize must be called before
// any other method.
func New(remote Remote) *Store {
	return &Store{remote: remote}
}

// Initialize loads every collection from the remote store. A missing document
// is seeded with an in-process default (the hardcoded category list, or an
// empty collection) and persisted immediately. Any transport error other than
// not-found aborts initialization.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := s.loadCategories(ctx); err != nil {
		return err
	}
	if err := s.loadComponents(ctx); err != nil {
		return err
	}
	if err := s.loadUsers(ctx); err != nil {
		return err
	}
	if err := s.loadThreads(ctx); err != nil {
		return err
	}
	if err := s.loadListings(ctx); err != nil {
		return err
	}
	if err := s.loadBuilds(ctx); err != nil {
		return err
	}
	if err := s.loadReviews(ctx); err != nil {
		return err
	}
	if err := s.loadReputations(ctx); err != nil {
		return err
	}
	if err := s.loadChatMessages(ctx); err != nil {
		return err
	}

	s.initialized = true
	return nil
}

// Initialized reports whether the collection mirror has been loaded.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// fetch reads and decodes one collection document. The second return value
// reports whether the document existed.
func (s *Store) fetch(ctx context.Context, path string, dst any) (bool, error) {
	raw, _, err := s.remote.Get(ctx, path)
	if err != nil {
		if errors.Is(err, gitstore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

// persist overwrites one collection document with the serialized in-memory
// state. Transport errors propagate unchanged; there is no retry and no
// rollback of the in-memory mutation.
func (s *Store) persist(ctx context.Context, path string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return models.NewInternalError(err)
	}

	if err := s.remote.Save(ctx, path, raw); err != nil {
		observability.NewStoreLogger(path).LogError(ctx, err, "persist")
		return err
	}

	observability.CollectionPersistTotal.WithLabelValues(path).Inc()
	observability.NewStoreLogger(path).LogPersist(ctx, len(raw))
	return nil
}

func (s *Store) loadCategories(ctx context.Context) error {
	found, err := s.fetch(ctx, PathCategories, &s.categories)
	if err != nil {
		return err
	}
	if !found {
		s.categories = defaultCategories()
		observability.CollectionSeedTotal.WithLabelValues(PathCategories).Inc()
		if err := s.persist(ctx, PathCategories, s.categories); err != nil {
			return err
		}
	}
	observability.NewStoreLogger(PathCategories).LogLoad(ctx, !found, len(s.categories))
	return nil
}

func (s *Store) loadComponents(ctx context.Context) error {
	found, err := s.fetch(ctx, PathComponents, &s.components)
	if err != nil {
		return err
	}
	if !found {
		s.components = make(map[string][]models.Component, len(s.categories))
		for _, category := range s.categories {
			s.components[category.ID] = []models.Component{}
		}
		observability.CollectionSeedTotal.WithLabelValues(PathComponents).Inc()
		if err := s.persist(ctx, PathComponents, s.components); err != nil {
			return err
		}
	}
	if s.components == nil {
		s.components = map[string][]models.Component{}
	}
	observability.NewStoreLogger(PathComponents).LogLoad(ctx, !found, len(s.components))
	return nil
}

func (s *Store) loadUsers(ctx context.Context) error {
	return loadSlice(ctx, s, PathUsers, &s.users)
}

func (s *Store) loadThreads(ctx context.Context) error {
	return loadSlice(ctx, s, PathThreads, &s.threads)
}

func (s *Store) loadListings(ctx context.Context) error {
	return loadSlice(ctx, s, PathListings, &s.listings)
}

func (s *Store) loadBuilds(ctx context.Context) error {
	return loadSlice(ctx, s, PathBuilds, &s.builds)
}

func (s *Store) loadChatMessages(ctx context.Context) error {
	return loadSlice(ctx, s, PathChat, &s.chatMessages)
}

// loadSlice loads a slice-backed collection, seeding an empty slice when the
// document is absent so the persisted default is [] rather than null.
func loadSlice[T any](ctx context.Context, s *Store, path string, dst *[]T) error {
	found, err := s.fetch(ctx, path, dst)
	if err != nil {
		return err
	}
	if !found {
		*dst = []T{}
		observability.CollectionSeedTotal.WithLabelValues(path).Inc()
		if err := s.persist(ctx, path, *dst); err != nil {
			return err
		}
	}
	observability.NewStoreLogger(path).LogLoad(ctx, !found, len(*dst))
	return nil
}

func (s *Store) loadReviews(ctx context.Context) error {
	found, err := s.fetch(ctx, PathReviews, &s.reviews)
	if err != nil {
		return err
	}
	if !found {
		s.reviews = map[string][]models.Review{}
		observability.CollectionSeedTotal.WithLabelValues(PathReviews).Inc()
		if err := s.persist(ctx, PathReviews, s.reviews); err != nil {
			return err
		}
	}
	if s.reviews == nil {
		s.reviews = map[string][]models.Review{}
	}
	observability.NewStoreLogger(PathReviews).LogLoad(ctx, !found, len(s.reviews))
	return nil
}

func (s *Store) loadReputations(ctx context.Context) error {
	found, err := s.fetch(ctx, PathReputation, &s.reputations)
	if err != nil {
		return err
	}
	if !found {
		s.reputations = map[string]*models.ReputationRecord{}
		observability.CollectionSeedTotal.WithLabelValues(PathReputation).Inc()
		if err := s.persist(ctx, PathReputation, s.reputations); err != nil {
			return err
		}
	}
	if s.reputations == nil {
		s.reputations = map[string]*models.ReputationRecord{}
	}
	observability.NewStoreLogger(PathReputation).LogLoad(ctx, !found, len(s.reputations))
	return nil
}

// ready is called at the top of every accessor under at least a read lock.
func (s *Store) ready() error {
	if !s.initialized {
		return ErrNotInitialized
	}
	return nil
}

// newID generates an opaque unique identifier. Random UUIDs replace the
// original timestamp-derived ids, which could collide under rapid writes.
func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// defaultCategories is the hardcoded seed used when the categories document
// does not exist yet.
func defaultCategories() []models.Category {
	return []models.Category{
		{ID: "cpu", Name: "CPU"},
		{ID: "cpu-cooler", Name: "CPU Cooler"},
		{ID: "motherboard", Name: "Motherboard"},
		{ID: "memory", Name: "Memory"},
		{ID: "storage", Name: "Storage"},
		{ID: "video-card", Name: "Video Card"},
		{ID: "case", Name: "Case"},
		{ID: "power-supply", Name: "Power Supply"},
		{ID: "monitor", Name: "Monitor"},
		{ID: "sound-card", Name: "Sound Card"},
		{ID: "wired-network", Name: "Wired Network Adapter"},
		{ID: "wireless-network", Name: "Wireless Network Adapter"},
		{ID: "headphones", Name: "Headphones"},
		{ID: "keyboard", Name: "Keyboard"},
		{ID: "mouse", Name: "Mouse"},
		{ID: "speakers", Name: "Speakers"},
		{ID: "webcam", Name: "Webcam"},
		{ID: "case-accessory", Name: "Case Accessory"},
		{ID: "case-fan", Name: "Case Fan"},
		{ID: "fan-controller", Name: "Fan Controller"},
		{ID: "thermal-compound", Name: "Thermal Compound"},
		{ID: "external-storage", Name: "External Storage"},
		{ID: "optical-drive", Name: "Optical Drive"},
		{ID: "ups", Name: "UPS System"},
	}
}
