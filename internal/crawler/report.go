package crawler

import (
	"time"

	"github.com/sirupsen/logrus"

	"tienda/pricewatch/internal/models"
)

// RunReport accumulates what one run observed. It is returned by Run and
// owned by the caller; nothing in the engine holds on to it afterwards.
type RunReport struct {
	// Started and Finished bound the run.
	Started  time.Time
	Finished time.Time

	// Processed counts products fully fetched and persisted.
	Processed int

	// Skipped counts products abandoned after retry exhaustion.
	Skipped int

	// New, Changed, and Unchanged break Processed down by outcome.
	New       int
	Changed   int
	Unchanged int

	// changes holds the run's events in traversal order.
	changes []models.PriceChange
}

func newRunReport(started time.Time) *RunReport {
	return &RunReport{Started: started}
}

// record tallies one persisted observation.
func (r *RunReport) record(outcome Outcome, change *models.PriceChange) {
	r.Processed++
	switch outcome {
	case OutcomeNew:
		r.New++
	case OutcomeChanged:
		r.Changed++
		if change != nil {
			r.changes = append(r.changes, *change)
		}
	case OutcomeUnchanged:
		r.Unchanged++
	}
}

// Changes returns the run's price-change events in the order they were
// observed. The slice is a copy; mutating it does not affect the report.
func (r *RunReport) Changes() []models.PriceChange {
	out := make([]models.PriceChange, len(r.changes))
	copy(out, r.changes)
	return out
}

// Elapsed is the wall-clock duration of the run.
func (r *RunReport) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// LogSummary writes the end-of-run summary the way the operator reads it:
// one line per change, then totals.
func (r *RunReport) LogSummary(logger *logrus.Logger) {
	if len(r.changes) == 0 {
		logger.Info("No price changes in this run")
	}
	for _, c := range r.changes {
		logger.Infof("Price change %s: %.2f -> %.2f", c.Name, c.OldPrice, c.NewPrice)
	}
	logger.Infof("Run finished in %s: %d processed (%d new, %d changed, %d unchanged), %d skipped",
		r.Elapsed().Round(time.Millisecond), r.Processed, r.New, r.Changed, r.Unchanged, r.Skipped)
}
