// Command main populates the Rigforge content store with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"rigforge/internal/config"
	"rigforge/internal/gitstore"
	"rigforge/internal/seed"
	"rigforge/internal/store"
)

func main() {
	presetPath := flag.String("preset", "", "Path to a YAML seeding preset")
	users := flag.Int("users", seed.DefaultPreset.Users, "Number of users to create")
	threads := flag.Int("threads", seed.DefaultPreset.Threads, "Number of forum threads to create")
	listings := flag.Int("listings", seed.DefaultPreset.Listings, "Number of marketplace listings to create")
	flag.Parse()

	log.Println("Content Store Seeder")
	log.Println("====================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	preset := seed.DefaultPreset
	if *presetPath != "" {
		preset, err = seed.LoadPreset(*presetPath)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		log.Printf("Applying preset %q (ignoring other flags)", preset.Name)
	} else {
		preset.Users = *users
		preset.Threads = *threads
		preset.Listings = *listings
		log.Printf("Target: %d users, %d threads, %d listings", preset.Users, preset.Threads, preset.Listings)
	}

	remote, err := gitstore.NewClient(gitstore.Config{
		BaseURL:    cfg.StoreBaseURL,
		RawBaseURL: cfg.StoreRawBaseURL,
		Token:      cfg.StoreToken,
	})
	if err != nil {
		log.Fatalf("Failed to create content store client: %v", err)
	}
	st := store.New(remote)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
	defer cancel()

	if err := st.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	if err := seed.NewSeeder(st).Apply(ctx, preset); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The content store is now populated with demo data.")
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
