// Package store defines the persistence contract for records.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jotbook-dev/jotbook/internal/model"
)

// ErrDuplicateID is returned by Insert when a record id stays in conflict
// after the bounded regeneration attempts.
var ErrDuplicateID = errors.New("record id already exists")

// ErrNotFound is returned by Get for an unknown record id.
var ErrNotFound = errors.New("record not found")

// Store is the repository contract the extraction and sync layers depend
// on. It deliberately says nothing about the backing engine so either can
// be exercised against an in-memory fake.
type Store interface {
	// Insert persists a new record. A blank id is assigned; a colliding
	// id is regenerated a bounded number of times before ErrDuplicateID
	// is returned.
	Insert(ctx context.Context, rec *model.Record) error

	// Update rewrites an existing record. The bool reports whether a row
	// with that id existed.
	Update(ctx context.Context, rec *model.Record) (bool, error)

	// Delete removes a record by id, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Record, error)

	// All returns every record, ordered by occurrence time.
	All(ctx context.Context) ([]model.Record, error)

	// ForDate returns the records occurring on the given calendar day.
	ForDate(ctx context.Context, day time.Time) ([]model.Record, error)

	// UpsertLatest merges a record by last-writer-wins: absent ids are
	// inserted, present ids are replaced only by a later updatedAt. The
	// bool reports whether anything changed; a timestamp tie changes
	// nothing.
	UpsertLatest(ctx context.Context, rec *model.Record) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
