package crawler

import (
	"testing"
	"time"

	"tienda/pricewatch/internal/models"
)

func TestReportCountsOutcomes(t *testing.T) {
	r := newRunReport(time.Now())

	r.record(OutcomeNew, nil)
	r.record(OutcomeUnchanged, nil)
	r.record(OutcomeChanged, &models.PriceChange{ProductID: "a", OldPrice: 1, NewPrice: 2})
	r.record(OutcomeChanged, &models.PriceChange{ProductID: "b", OldPrice: 3, NewPrice: 4})

	if r.Processed != 4 {
		t.Errorf("Expected 4 processed, got %d", r.Processed)
	}
	if r.New != 1 || r.Changed != 2 || r.Unchanged != 1 {
		t.Errorf("Unexpected outcome counts: new=%d changed=%d unchanged=%d", r.New, r.Changed, r.Unchanged)
	}
}

func TestReportPreservesChangeOrder(t *testing.T) {
	r := newRunReport(time.Now())
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		r.record(OutcomeChanged, &models.PriceChange{ProductID: id})
	}

	changes := r.Changes()
	if len(changes) != 3 {
		t.Fatalf("Expected 3 changes, got %d", len(changes))
	}
	for i, id := range ids {
		if changes[i].ProductID != id {
			t.Errorf("Expected change %d to be %q, got %q", i, id, changes[i].ProductID)
		}
	}
}

func TestReportChangesReturnsCopy(t *testing.T) {
	r := newRunReport(time.Now())
	r.record(OutcomeChanged, &models.PriceChange{ProductID: "a"})

	changes := r.Changes()
	changes[0].ProductID = "mutated"

	if r.Changes()[0].ProductID != "a" {
		t.Error("Mutating the returned slice must not affect the report")
	}
}

func TestReportElapsed(t *testing.T) {
	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	r := newRunReport(start)
	r.Finished = start.Add(90 * time.Second)

	if r.Elapsed() != 90*time.Second {
		t.Errorf("Expected 90s elapsed, got %v", r.Elapsed())
	}
}
