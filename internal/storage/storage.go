// Package storage persists product state and the append-only price history.
package storage

import (
	"context"

	"tienda/pricewatch/internal/models"
)

// Observation is the persisted outcome of diffing one fetched snapshot
// against stored state.
type Observation struct {
	// Product is the refreshed row: the fetched price, unit size, and
	// timestamp, regardless of whether the price changed.
	Product models.Product

	// Change is nil when the price did not change. A set Change is
	// appended to the history exactly once.
	Change *models.PriceChange
}

// Store is the persistence capability for the crawl. Each method is a
// single atomic unit against the persisted state.
type Store interface {
	// ReadProduct returns the stored row for id, or nil when the product
	// has never been observed.
	ReadProduct(ctx context.Context, id string) (*models.Product, error)

	// RecordObservation persists one observation as a single transaction:
	// the product row is upserted and, when Change is set, a history row
	// is appended. Either both writes land or neither does.
	RecordObservation(ctx context.Context, obs Observation) error

	// Products returns all stored products ordered by id.
	Products(ctx context.Context) ([]models.Product, error)

	// History returns the change log in insertion order.
	History(ctx context.Context) ([]models.PriceChange, error)

	// Close releases database connection resources.
	Close() error
}
