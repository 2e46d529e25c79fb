package extract

import (
	"strings"
	"time"

	"github.com/jotbook-dev/jotbook/internal/model"
)

// Reconcile merges an externally produced candidate (typically from the
// AI service) with a locally extracted one covering the same text.
//
// The primary candidate is trusted for everything except the gaps the
// rules below fill, in order: the local date detector overrides a
// differing calendar day (keeping the primary's time of day), a missing
// amount is adopted, an expense verdict is never downgraded, and a blank
// title is replaced. A nil fallback passes the primary through unchanged.
func Reconcile(primary model.Record, fallback *model.Record) model.Record {
	if fallback == nil {
		return primary
	}

	merged := primary
	if !model.SameDay(merged.OccursAt, fallback.OccursAt) {
		f := fallback.OccursAt
		merged.OccursAt = time.Date(f.Year(), f.Month(), f.Day(),
			merged.OccursAt.Hour(), merged.OccursAt.Minute(), 0, 0,
			merged.OccursAt.Location())
	}
	if merged.Amount == nil && fallback.Amount != nil {
		a := *fallback.Amount
		merged.Amount = &a
	}
	if !merged.IsExpense && fallback.IsExpense {
		merged.IsExpense = true
	}
	if strings.TrimSpace(merged.Title) == "" {
		merged.Title = fallback.Title
	}
	return merged
}
