package models

import "time"

// PriceChange records one transition of a product's price between two
// observations. Rows are append-only: written once, never updated.
type PriceChange struct {
	// ProductID references the product the change belongs to.
	ProductID string `json:"product_id"`

	// Name is the product display name at observation time.
	Name string `json:"name"`

	// OldPrice is the price stored before this observation.
	OldPrice float64 `json:"old_price"`

	// NewPrice is the price reported by the observed snapshot.
	NewPrice float64 `json:"new_price"`

	// ObservedAt is when the change was detected.
	ObservedAt time.Time `json:"observed_at"`
}
