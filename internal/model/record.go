// Package model defines the record type shared by extraction, storage
// and sync, together with the normalization rules applied whenever a
// record crosses a boundary between them.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAuthor is the sentinel contributor name for records created on
// this replica without an explicit author.
const DefaultAuthor = "local"

// DefaultTitle is substituted when normalization finds an empty title.
const DefaultTitle = "未命名"

// Record is one calendar/expense entry. It is produced by extraction or
// manual entry, persisted by the repository, and exchanged between
// replicas through the group share file, so its JSON form is the wire
// format and must round-trip exactly.
type Record struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Notes       string           `json:"notes,omitempty"`
	OccursAt    time.Time        `json:"occursAt"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    Category         `json:"category"`
	IsExpense   bool             `json:"isExpense"`
	ShareSize   int              `json:"shareSize"`
	SplitMethod SplitMethod      `json:"splitMethod"`
	GroupID     string           `json:"groupId,omitempty"`
	Author      string           `json:"author,omitempty"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	SyncStatus  SyncStatus       `json:"syncStatus"`
}

// IsShared reports whether the record involves more than one person.
func (r *Record) IsShared() bool {
	return r.ShareSize > 1
}

// Newer reports whether r wins a last-writer-wins merge against other.
// Ties lose, so the incumbent survives and replaying a merge is a no-op.
func (r *Record) Newer(other *Record) bool {
	return r.UpdatedAt.After(other.UpdatedAt)
}

// Normalize applies the defaulting rules in place. It runs at every
// ingress boundary: extraction output, repository writes, and sync
// merge input. After it returns:
//
//   - Title and Author are trimmed; blanks become DefaultTitle and
//     DefaultAuthor.
//   - ShareSize is at least 1.
//   - ShareSize == 1 implies SplitPersonal, and a shared record never
//     carries SplitPersonal (it falls back to SplitEqual).
//   - Category, SplitMethod and SyncStatus hold known values.
//   - Amount is nil or non-negative.
func (r *Record) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	r.Author = strings.TrimSpace(r.Author)
	if r.Author == "" {
		r.Author = DefaultAuthor
	}
	r.GroupID = strings.TrimSpace(r.GroupID)

	if r.ShareSize < 1 {
		r.ShareSize = 1
	}
	if !r.Category.Valid() {
		r.Category = CategoryOther
	}
	if !r.SplitMethod.Valid() {
		r.SplitMethod = SplitPersonal
	}
	if !r.SyncStatus.Valid() {
		r.SyncStatus = StatusSynced
	}

	if r.ShareSize == 1 {
		r.SplitMethod = SplitPersonal
	} else if r.SplitMethod == SplitPersonal {
		// A multi-person record cannot be personal; keep the share size
		// (the stronger signal) and fall back to an equal split.
		r.SplitMethod = SplitEqual
	}

	if r.Amount != nil && r.Amount.IsNegative() {
		r.Amount = nil
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
