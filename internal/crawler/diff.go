package crawler

import (
	"time"

	"tienda/pricewatch/internal/catalog"
	"tienda/pricewatch/internal/models"
	"tienda/pricewatch/internal/storage"
)

// Outcome classifies one product observation against stored state.
type Outcome int

const (
	// OutcomeNew means no stored row existed: an insertion, never an event.
	OutcomeNew Outcome = iota

	// OutcomeChanged means the stored price differs from the snapshot price.
	OutcomeChanged

	// OutcomeUnchanged means the price is numerically equal.
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNew:
		return "new"
	case OutcomeChanged:
		return "changed"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Evaluate diffs a fetched snapshot against the stored row (nil when the
// product was never seen). In every outcome the returned observation
// refreshes price, unit size, and timestamp to the snapshot's values; only
// a price change produces an event. A unit-size change alone does not - the
// history tracks prices, not packaging.
func Evaluate(id string, snap *catalog.Snapshot, stored *models.Product, now time.Time) (Outcome, storage.Observation) {
	obs := storage.Observation{
		Product: models.Product{
			ID:         id,
			Name:       snap.Name,
			LastPrice:  snap.UnitPrice,
			UnitSize:   snap.UnitSize,
			LastUpdate: now,
		},
	}

	if stored == nil {
		return OutcomeNew, obs
	}

	if stored.LastPrice != snap.UnitPrice {
		obs.Change = &models.PriceChange{
			ProductID:  id,
			Name:       snap.Name,
			OldPrice:   stored.LastPrice,
			NewPrice:   snap.UnitPrice,
			ObservedAt: now,
		}
		return OutcomeChanged, obs
	}

	return OutcomeUnchanged, obs
}
