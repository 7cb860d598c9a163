// Package seed provides helpers to create demo data for the application's
// content store. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"rigforge/internal/models"
	"rigforge/internal/store"

	"github.com/brianvoe/gofakeit/v6"
)

// DemoPassword is assigned to every generated user.
const DemoPassword = "password123"

// Factory builds domain entities through the store's own operations so that
// every generated record passes the same validation as live traffic.
type Factory struct {
	store *store.Store
	rand  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided store.
func NewFactory(st *store.Store) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		store: st,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser registers a generated user. Optional override functions may
// adjust the generated username and email before registration.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (models.User, error) {
	user := models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
	}
	for _, override := range overrides {
		override(&user)
	}

	created, err := f.store.RegisterUser(ctx, user.Username, user.Email, DemoPassword, "")
	if err != nil {
		return models.User{}, err
	}

	bio := gofakeit.Sentence(10)
	city := gofakeit.City()
	_, err = f.store.UpdateUserProfile(ctx, created.ID, store.UpdateProfileInput{
		Bio:      bio,
		Location: city,
		SocialLinks: map[string]string{
			"twitter": "https://twitter.com/" + created.Username,
		},
	})
	if err != nil {
		return models.User{}, err
	}
	return created, nil
}

// CreateComponent adds a generated component to the given category.
func (f *Factory) CreateComponent(ctx context.Context, categoryID string) (models.Component, error) {
	price := gofakeit.Price(30, 1500)
	return f.store.AddComponent(ctx, categoryID, store.AddComponentInput{
		Name: fmt.Sprintf("%s %s %d", gofakeit.Company(), gofakeit.NounAbstract(), gofakeit.Number(100, 9900)),
		Specs: map[string]string{
			"model":  gofakeit.AppName(),
			"weight": fmt.Sprintf("%dg", gofakeit.Number(50, 2500)),
		},
		Vendors: []models.Vendor{
			{
				ID:    gofakeit.UUID(),
				Name:  gofakeit.Company(),
				Price: price,
				URL:   gofakeit.URL(),
			},
		},
	})
}

// CreateThread posts a generated forum thread for the user.
func (f *Factory) CreateThread(ctx context.Context, userID, category string) (models.Thread, error) {
	return f.store.CreateThread(ctx, userID, category,
		gofakeit.Sentence(5), gofakeit.Paragraph(1, 3, 8, "\n"))
}

// CreateListing opens a generated marketplace listing for an existing component.
func (f *Factory) CreateListing(ctx context.Context, userID, categoryID, componentID string) (models.Listing, error) {
	conditions := []string{"new", "like-new", "used", "for-parts"}
	listing, _, err := f.store.CreateListing(ctx, store.CreateListingInput{
		UserID:      userID,
		CategoryID:  categoryID,
		ComponentID: componentID,
		Price:       gofakeit.Price(20, 900),
		Condition:   conditions[f.rand.Intn(len(conditions))],
		Description: gofakeit.Paragraph(1, 2, 6, " "),
	})
	return listing, err
}

// CreateReview rates a component on behalf of the user.
func (f *Factory) CreateReview(ctx context.Context, userID, componentID string) (models.Review, error) {
	return f.store.AddReview(ctx, componentID, userID,
		gofakeit.Number(1, 5), gofakeit.Sentence(12))
}

// CreateBuild saves a generated build referencing the given components.
func (f *Factory) CreateBuild(ctx context.Context, userID string, parts map[string]models.Component) (models.Build, error) {
	slots := make(map[string]models.BuildSlot, len(parts))
	for categoryID, component := range parts {
		slot := models.BuildSlot{
			ComponentID:   component.ID,
			ComponentName: component.Name,
		}
		if len(component.Vendors) > 0 {
			v := component.Vendors[0]
			slot.VendorID = v.ID
			slot.VendorName = v.Name
			slot.Price = v.Price
		}
		slots[categoryID] = slot
	}
	return f.store.SaveBuild(ctx, userID, gofakeit.AppName()+" build", slots)
}

// CreateChatExchange sends a short generated back-and-forth between two users.
func (f *Factory) CreateChatExchange(ctx context.Context, aliceID, bobID string, rounds int) error {
	for i := 0; i < rounds; i++ {
		if _, err := f.store.SendChatMessage(ctx, aliceID, bobID, gofakeit.Question()); err != nil {
			return err
		}
		if _, err := f.store.SendChatMessage(ctx, bobID, aliceID, gofakeit.Sentence(8)); err != nil {
			return err
		}
	}
	return nil
}

// CreateReputation records generated feedback between two distinct users.
func (f *Factory) CreateReputation(ctx context.Context, targetID, fromID string) error {
	feedbackType := models.ReputationPositive
	if f.rand.Intn(4) == 0 {
		feedbackType = models.ReputationNegative
	}
	_, err := f.store.AddReputation(ctx, targetID, fromID, feedbackType, gofakeit.Sentence(8))
	return err
}
