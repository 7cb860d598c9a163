package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"rigforge/internal/models"
	"rigforge/internal/store"

	"gopkg.in/yaml.v3"
)

// Preset describes the volume of demo data to generate. Presets are loaded
// from YAML files so demo environments can be reproduced without code changes.
type Preset struct {
	Name       string   `yaml:"name"`
	Users      int      `yaml:"users"`
	Components int      `yaml:"components"`
	Threads    int      `yaml:"threads"`
	Listings   int      `yaml:"listings"`
	Reviews    int      `yaml:"reviews"`
	Builds     int      `yaml:"builds"`
	Chats      int      `yaml:"chats"`
	Categories []string `yaml:"categories"`
}

// DefaultPreset is used when no preset file is supplied.
var DefaultPreset = Preset{
	Name:       "default",
	Users:      12,
	Components: 4,
	Threads:    10,
	Listings:   8,
	Reviews:    20,
	Builds:     6,
	Chats:      5,
	Categories: []string{"cpu", "gpu", "motherboard", "ram", "storage", "psu", "case", "cooling"},
}

// LoadPreset reads a preset definition from a YAML file.
func LoadPreset(path string) (Preset, error) {
	raw, err := os.ReadFile(path) // #nosec G304: operator-supplied preset path
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Preset{}, fmt.Errorf("parse preset: %w", err)
	}
	if p.Users < 2 {
		return Preset{}, errors.New("preset needs at least 2 users")
	}
	if len(p.Categories) == 0 {
		p.Categories = DefaultPreset.Categories
	}
	return p, nil
}

// Seeder populates the content store with generated community data.
type Seeder struct {
	store   *store.Store
	factory *Factory
}

// NewSeeder creates a Seeder over an initialized store.
func NewSeeder(st *store.Store) *Seeder {
	return &Seeder{store: st, factory: NewFactory(st)}
}

// Apply generates the full data set described by the preset. Generation goes
// through store operations, so every earlier phase feeds the later ones:
// users own threads and listings, listings attach vendors to components, and
// reviews and reputation reference both.
func (s *Seeder) Apply(ctx context.Context, p Preset) error {
	users := make([]models.User, 0, p.Users)
	for i := 0; i < p.Users; i++ {
		user, err := s.factory.CreateUser(ctx)
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users", len(users))

	componentsByCategory := make(map[string][]models.Component)
	for _, categoryID := range p.Categories {
		for i := 0; i < p.Components; i++ {
			component, err := s.factory.CreateComponent(ctx, categoryID)
			if err != nil {
				return fmt.Errorf("seed component: %w", err)
			}
			componentsByCategory[categoryID] = append(componentsByCategory[categoryID], component)
		}
	}
	log.Printf("seeded %d components across %d categories", p.Components*len(p.Categories), len(p.Categories))

	forumCategories := append([]string{"general", "builds", "troubleshooting"}, p.Categories...)
	for i := 0; i < p.Threads; i++ {
		author := users[i%len(users)]
		category := forumCategories[i%len(forumCategories)]
		thread, err := s.factory.CreateThread(ctx, author.ID, category)
		if err != nil {
			return fmt.Errorf("seed thread: %w", err)
		}
		// A couple of replies from other users keeps threads realistic.
		for j := 1; j <= 2; j++ {
			replier := users[(i+j)%len(users)]
			if replier.ID == author.ID {
				continue
			}
			if _, err := s.store.AddComment(ctx, thread.ID, replier.ID, "Nice point about "+thread.Title); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}
	}
	log.Printf("seeded %d threads", p.Threads)

	listed := 0
	for i := 0; i < p.Listings; i++ {
		seller := users[i%len(users)]
		categoryID := p.Categories[i%len(p.Categories)]
		components := componentsByCategory[categoryID]
		if len(components) == 0 {
			continue
		}
		component := components[i%len(components)]
		if _, err := s.factory.CreateListing(ctx, seller.ID, categoryID, component.ID); err != nil {
			return fmt.Errorf("seed listing: %w", err)
		}
		listed++
	}
	log.Printf("seeded %d listings", listed)

	reviewed := 0
	for i := 0; i < p.Reviews; i++ {
		reviewer := users[i%len(users)]
		categoryID := p.Categories[i%len(p.Categories)]
		components := componentsByCategory[categoryID]
		if len(components) == 0 {
			continue
		}
		component := components[(i/len(p.Categories))%len(components)]
		if _, err := s.factory.CreateReview(ctx, reviewer.ID, component.ID); err != nil {
			return fmt.Errorf("seed review: %w", err)
		}
		reviewed++
	}
	log.Printf("seeded %d reviews", reviewed)

	for i := 0; i < p.Builds; i++ {
		owner := users[i%len(users)]
		parts := make(map[string]models.Component)
		for _, categoryID := range p.Categories {
			components := componentsByCategory[categoryID]
			if len(components) == 0 {
				continue
			}
			parts[categoryID] = components[i%len(components)]
		}
		if _, err := s.factory.CreateBuild(ctx, owner.ID, parts); err != nil {
			return fmt.Errorf("seed build: %w", err)
		}
	}
	log.Printf("seeded %d builds", p.Builds)

	for i := 0; i < p.Chats && len(users) >= 2; i++ {
		a := users[i%len(users)]
		b := users[(i+1)%len(users)]
		if a.ID == b.ID {
			continue
		}
		if err := s.factory.CreateChatExchange(ctx, a.ID, b.ID, 2); err != nil {
			return fmt.Errorf("seed chat: %w", err)
		}
		if err := s.factory.CreateReputation(ctx, a.ID, b.ID); err != nil {
			return fmt.Errorf("seed reputation: %w", err)
		}
	}
	log.Printf("seeded %d chat exchanges", p.Chats)

	return nil
}
