// Package models defines the domain models used across the application.
package models

import "time"

// Product is the current known state of one catalog product.
// One row per catalog product id; refreshed on every successful observation.
type Product struct {
	// ID is the stable catalog identifier for the product.
	ID string `json:"id"`

	// Name is the display name reported by the catalog.
	// "unnamed" when the catalog omits it.
	Name string `json:"name"`

	// LastPrice is the unit price from the most recent successful fetch.
	LastPrice float64 `json:"last_price"`

	// UnitSize is nil when the catalog does not report a size for this product.
	UnitSize *float64 `json:"unit_size,omitempty"`

	// LastUpdate is when this row was last refreshed by a crawl.
	LastUpdate time.Time `json:"last_update"`
}
