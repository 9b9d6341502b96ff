// Package crawler walks the catalog tree and applies each product
// observation to the store: categories -> subcategories -> products, fully
// sequential so change-event order is the traversal order.
package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"tienda/pricewatch/internal/catalog"
	"tienda/pricewatch/internal/faulttolerance"
	"tienda/pricewatch/internal/models"
	"tienda/pricewatch/internal/storage"
)

const (
	// DefaultProductDelay bounds the request rate against the upstream:
	// one product fetch per 100ms.
	DefaultProductDelay = 100 * time.Millisecond
)

// Config holds crawl tuning parameters.
type Config struct {
	// ProductDelay is the fixed pause between product fetches.
	ProductDelay time.Duration

	// Retry is the per-fetch retry contract.
	Retry faulttolerance.RetryConfig
}

// DefaultConfig returns the production crawl parameters.
func DefaultConfig() Config {
	return Config{
		ProductDelay: DefaultProductDelay,
		Retry:        faulttolerance.DefaultRetryConfig("catalog-fetch"),
	}
}

// Crawler drives one run: fetch, diff, persist, report.
type Crawler struct {
	client  *catalog.Client
	store   storage.Store
	retryer *faulttolerance.Retryer
	limiter *rate.Limiter
	logger  *logrus.Logger
	now     func() time.Time
}

// NewLogger builds the logger the crawl binaries use.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// New creates a crawler over the given client and store.
func New(client *catalog.Client, store storage.Store, logger *logrus.Logger, cfg Config) *Crawler {
	if cfg.ProductDelay <= 0 {
		cfg.ProductDelay = DefaultProductDelay
	}
	return &Crawler{
		client:  client,
		store:   store,
		retryer: faulttolerance.NewRetryer(cfg.Retry, logger),
		limiter: rate.NewLimiter(rate.Every(cfg.ProductDelay), 1),
		logger:  logger,
		now:     time.Now,
	}
}

// Run walks the whole catalog once. A root-listing failure aborts the run;
// a subcategory or product failure is logged and skipped. Storage failures
// are fatal and surface immediately - there is no partial state to recover
// from automatically.
func (c *Crawler) Run(ctx context.Context) (*RunReport, error) {
	report := newRunReport(c.now())
	c.logger.Info("Starting catalog crawl")

	var roots []models.CategoryNode
	err := c.retryer.Execute(ctx, func() error {
		var fetchErr error
		roots, fetchErr = c.client.Categories(ctx)
		return fetchErr
	})
	if err != nil {
		return report, fmt.Errorf("root category listing: %w", err)
	}

	for _, category := range roots {
		c.logger.Infof("Processing category %s (%s)", category.Name, category.ID)
		for _, sub := range category.Children {
			if err := c.crawlSubcategory(ctx, sub.ID, sub.Name, report); err != nil {
				report.Finished = c.now()
				return report, err
			}
		}
	}

	report.Finished = c.now()
	return report, nil
}

// crawlSubcategory fetches one subcategory's detail and processes its
// products: the directly listed ones first, then one level of nested
// subcategories in order. Deeper nesting is not traversed - the upstream
// models exactly two levels below the root listing. A fetch failure here
// abandons the branch, not the run; the returned error is only non-nil for
// fatal conditions (storage failure, cancellation).
func (c *Crawler) crawlSubcategory(ctx context.Context, id, name string, report *RunReport) error {
	var detail *models.CategoryNode
	err := c.retryer.Execute(ctx, func() error {
		var fetchErr error
		detail, fetchErr = c.client.CategoryDetail(ctx, id)
		return fetchErr
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Errorf("Skipping subcategory %s (%s): %v", name, id, err)
		return nil
	}

	c.logger.Infof("Subcategory %s (%s): %d direct products, %d nested subcategories",
		name, id, len(detail.Products), len(detail.Children))

	for _, productID := range detail.Products {
		if err := c.processProduct(ctx, productID, report); err != nil {
			return err
		}
	}
	for _, nested := range detail.Children {
		for _, productID := range nested.Products {
			if err := c.processProduct(ctx, productID, report); err != nil {
				return err
			}
		}
	}
	return nil
}

// processProduct runs the fetch-diff-persist sequence for one product id.
// Duplicate ids within a run are each processed independently; the second
// pass diffs against the already-refreshed row and lands as an unchanged
// no-op, so a single upstream change is never recorded twice.
func (c *Crawler) processProduct(ctx context.Context, id string, report *RunReport) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var snap *catalog.Snapshot
	err := c.retryer.Execute(ctx, func() error {
		var fetchErr error
		snap, fetchErr = c.client.ProductSnapshot(ctx, id)
		return fetchErr
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Errorf("Giving up on product %s: %v", id, err)
		report.Skipped++
		return nil
	}

	stored, err := c.store.ReadProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("read product %s: %w", id, err)
	}

	outcome, obs := Evaluate(id, snap, stored, c.now())
	if err := c.store.RecordObservation(ctx, obs); err != nil {
		return fmt.Errorf("persist product %s: %w", id, err)
	}
	report.record(outcome, obs.Change)

	switch outcome {
	case OutcomeNew:
		c.logger.Infof("New product %s: %s (%.2f)", id, snap.Name, snap.UnitPrice)
	case OutcomeChanged:
		c.logger.Infof("Price change for %s: %s %.2f -> %.2f", id, snap.Name, obs.Change.OldPrice, obs.Change.NewPrice)
	}
	return nil
}
