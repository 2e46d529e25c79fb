// Package extract turns messy multi-line text — pasted chat snippets or
// OCR output from screenshots — into structured records.
//
// The pipeline is rule-based end to end: noisy lines are filtered out,
// then independent detectors pull a date, a time of day, an amount, a
// category and a title from what remains. No network, no model, fully
// deterministic; ambiguity is settled by fixed tie-break rules rather
// than surfaced as an error.
package extract

import (
	"strings"
	"time"

	"github.com/jotbook-dev/jotbook/internal/id"
	"github.com/jotbook-dev/jotbook/internal/keywords"
	"github.com/jotbook-dev/jotbook/internal/model"
)

// Engine composes the line normalizer and field detectors into one
// extraction pass.
type Engine struct {
	table *keywords.Table
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable swaps in a custom keyword table.
func WithTable(t *keywords.Table) Option {
	return func(e *Engine) {
		e.table = t
	}
}

// NewEngine creates an Engine using the built-in keyword table unless an
// option overrides it.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{table: keywords.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses raw text into a candidate record. The reference date
// anchors relative-day words and fills in when no date is found at all.
// The second return is false only when the trimmed input is empty —
// unusable text still produces a record, just one with defaults.
func (e *Engine) Extract(raw string, ref time.Time) (*model.Record, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}

	cleaned := CleanLines(raw)

	occursAt := findDay(cleaned, ref)
	if h, m, ok := findClock(cleaned); ok {
		occursAt = time.Date(occursAt.Year(), occursAt.Month(), occursAt.Day(),
			h, m, 0, 0, occursAt.Location())
	}

	amount := findAmount(cleaned)
	category, _ := e.table.Match(cleaned)

	rec := &model.Record{
		ID:          id.NewRecordID(),
		Title:       findTitle(cleaned),
		Notes:       cleaned,
		OccursAt:    occursAt,
		Amount:      amount,
		Category:    category,
		IsExpense:   amount != nil || e.table.MarksExpense(cleaned),
		ShareSize:   1,
		SplitMethod: model.SplitPersonal,
	}
	rec.Normalize()
	return rec, true
}
