package models

import "time"

// Listing status values. Listings are never deleted; they only leave the
// active state.
const ListingStatusActive = "active"

// Listing is a second-hand sale offer linked to a catalog component.
type Listing struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"userId"`
	ComponentID         string    `json:"componentId"`
	ComponentCategoryID string    `json:"componentCategoryId"`
	Price               float64   `json:"price"`
	Condition           string    `json:"condition"`
	Description         string    `json:"description"`
	Images              []string  `json:"images"`
	CreatedAt           time.Time `json:"createdAt"`
	Status              string    `json:"status"`
}

// ListingDetail pairs a listing with its linked catalog component.
type ListingDetail struct {
	Listing   Listing    `json:"listing"`
	Component *Component `json:"component,omitempty"`
}
