package models

import "time"

// Build is a saved PC configuration: one selected part per category.
type Build struct {
	ID         string               `json:"id"`
	UserID     string               `json:"userId"`
	Name       string               `json:"name"`
	Components map[string]BuildSlot `json:"components"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// BuildSlot records the chosen component and vendor for one category slot.
type BuildSlot struct {
	ComponentID   string  `json:"componentId"`
	ComponentName string  `json:"componentName,omitempty"`
	VendorID      string  `json:"vendorId,omitempty"`
	VendorName    string  `json:"vendorName,omitempty"`
	Price         float64 `json:"price"`
}
