// Package syncer reconciles shared records between the local repository
// and the group store, a JSON file standing in for a future sync server.
//
// One pass per group: local pending deletions are folded into the group's
// deletion set, local and stored records are merged by last-writer-wins
// on updatedAt, the merged state is written back atomically, and the
// surviving records are fed into the local repository. Re-running a pass
// with nothing changed is a no-op apart from the group's merge timestamp.
package syncer

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jotbook-dev/jotbook/internal/model"
	"github.com/jotbook-dev/jotbook/internal/prefs"
	"github.com/jotbook-dev/jotbook/internal/store"
)

// Result summarizes one sync pass.
type Result struct {
	Group    string        `json:"group"`
	Merged   int           `json:"merged"`  // repository rows changed by merge-back
	Pushed   int           `json:"pushed"`  // local records that entered or won in the group store
	Deleted  int           `json:"deleted"` // repository rows removed by deletion propagation
	Duration time.Duration `json:"duration"`
}

// Engine runs sync passes. Passes are serialized in-process: the group
// store is one file holding every group, so overlapping writes would
// race. Exclusion across processes sharing a store file is the caller's
// responsibility.
type Engine struct {
	repo   store.Store
	share  *ShareFile
	books  prefs.Bookkeeper
	author string
	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithAuthor sets the contributor name stamped onto outgoing records that
// don't carry one yet.
func WithAuthor(name string) Option {
	return func(e *Engine) {
		e.author = name
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine over the given repository, share file and
// bookkeeping store.
func New(repo store.Store, share *ShareFile, books prefs.Bookkeeper, opts ...Option) *Engine {
	e := &Engine{
		repo:   repo,
		share:  share,
		books:  books,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SyncGroup runs one reconciliation pass for a group. The group store is
// written once, after the merge; a failure before that point leaves it
// untouched, and re-running after a failure converges to the same state.
func (e *Engine) SyncGroup(ctx context.Context, groupID string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := e.now()
	res := Result{Group: groupID}

	groups, err := e.share.Load()
	if err != nil {
		// A missing or corrupt store is treated as empty rather than
		// failing the pass; the save below replaces it wholesale.
		e.logger.Warn("share store unreadable, starting empty", "group", groupID, "error", err)
	}
	entry := groups[groupID]
	if entry == nil {
		entry = &GroupEntry{}
		groups[groupID] = entry
	}

	pending, err := e.books.PendingDeletions(groupID)
	if err != nil {
		return res, err
	}
	deleted := make(map[string]struct{}, len(entry.DeletedIDs)+len(pending))
	for _, delID := range entry.DeletedIDs {
		deleted[delID] = struct{}{}
	}
	for _, delID := range pending {
		deleted[delID] = struct{}{}
	}

	// Seed the working set from the stored records, deduplicating by id
	// with the latest updatedAt winning.
	working := make(map[string]model.Record, len(entry.Events))
	for _, rec := range entry.Events {
		if cur, ok := working[rec.ID]; !ok || rec.Newer(&cur) {
			working[rec.ID] = rec
		}
	}

	locals, err := e.repo.All(ctx)
	if err != nil {
		return res, err
	}
	for _, rec := range locals {
		if !rec.IsShared() || (rec.GroupID != groupID && rec.GroupID != "") {
			continue
		}
		orig := rec
		rec.GroupID = groupID
		if e.author != "" && (rec.Author == "" || rec.Author == model.DefaultAuthor) {
			rec.Author = e.author
		}
		rec.SyncStatus = model.StatusSynced
		rec.Normalize()

		// Stamps must land in the repository as well: the merge-back
		// upsert skips ties, so it would never carry them. updatedAt is
		// left alone — stamping is bookkeeping, not an edit.
		if rec.GroupID != orig.GroupID || rec.Author != orig.Author ||
			rec.SyncStatus != orig.SyncStatus {
			if _, err := e.repo.Update(ctx, &rec); err != nil {
				return res, err
			}
		}

		cur, ok := working[rec.ID]
		if !ok || rec.Newer(&cur) {
			working[rec.ID] = rec
			res.Pushed++
		}
	}

	for delID := range deleted {
		delete(working, delID)
	}

	entry.Events = make([]model.Record, 0, len(working))
	for _, rec := range working {
		entry.Events = append(entry.Events, rec)
	}
	entry.DeletedIDs = make([]string, 0, len(deleted))
	for delID := range deleted {
		entry.DeletedIDs = append(entry.DeletedIDs, delID)
	}
	entry.UpdatedAt = e.now()

	if err := e.share.Save(groups); err != nil {
		return res, err
	}

	// Feed the merged state back into the repository, records first so a
	// record re-added after deletion is not immediately removed again.
	ids := make([]string, 0, len(working))
	for recID := range working {
		ids = append(ids, recID)
	}
	sort.Strings(ids)
	for _, recID := range ids {
		rec := working[recID]
		changed, err := e.repo.UpsertLatest(ctx, &rec)
		if err != nil {
			return res, err
		}
		if changed {
			res.Merged++
		}
	}

	delIDs := make([]string, 0, len(deleted))
	for delID := range deleted {
		delIDs = append(delIDs, delID)
	}
	sort.Strings(delIDs)
	for _, delID := range delIDs {
		removed, err := e.repo.Delete(ctx, delID)
		if err != nil {
			return res, err
		}
		if removed {
			res.Deleted++
		}
	}

	if err := e.markSynced(ctx, groupID); err != nil {
		return res, err
	}

	if err := e.books.ClearPendingDeletions(groupID); err != nil {
		return res, err
	}
	if err := e.books.SetLastSync(groupID, e.now()); err != nil {
		return res, err
	}

	res.Duration = e.now().Sub(start)
	e.logger.Info("sync pass complete",
		"group", groupID,
		"merged", res.Merged,
		"pushed", res.Pushed,
		"deleted", res.Deleted,
		"duration", res.Duration,
	)
	return res, nil
}

// markSynced flips any record still marked pending-upload for the group;
// the completed pass is authoritative. This catches records whose stored
// copy already won the merge and therefore saw no upsert.
func (e *Engine) markSynced(ctx context.Context, groupID string) error {
	locals, err := e.repo.All(ctx)
	if err != nil {
		return err
	}
	for _, rec := range locals {
		if rec.GroupID != groupID || rec.SyncStatus != model.StatusPendingUpload {
			continue
		}
		rec.SyncStatus = model.StatusSynced
		if _, err := e.repo.Update(ctx, &rec); err != nil {
			return err
		}
	}
	return nil
}
