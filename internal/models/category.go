package models

import "time"

// DefaultSlotCategory is stored on slots created without an explicit category.
const DefaultSlotCategory = "Film"

// SlotCategory is an independent registry entry used to classify slots.
// Slots capture the resolved name as a string snapshot, not a live reference:
// deleting or renaming a category never rewrites existing slots.
type SlotCategory struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Order     int       `db:"display_order" json:"order"`
	IsVisible bool      `db:"is_visible" json:"isVisible"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
