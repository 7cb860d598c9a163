package models

import "time"

// Category is a part category in the builder (cpu, memory, case, ...).
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Component is a catalog entry within a category. Specs is an open
// string-to-string mapping because every category defines its own spec set.
type Component struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Specs   map[string]string `json:"specs,omitempty"`
	Image   string            `json:"image,omitempty"`
	Vendors []Vendor          `json:"vendors,omitempty"`
	AddedAt time.Time         `json:"addedAt"`
}

// Vendor is a priced source for a component. Marketplace vendors are synthetic
// entries generated when a listing is created for the component; their ID
// encodes the listing id.
type Vendor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	URL         string  `json:"url,omitempty"`
	Marketplace bool    `json:"marketplace,omitempty"`
	ListingID   string  `json:"listingId,omitempty"`
}

// ComponentSummary is the id/name/image projection used by pickers.
type ComponentSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Review is a 1-5 star rating with a comment, stored per component.
type Review struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ComponentID string    `json:"componentId"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
}
