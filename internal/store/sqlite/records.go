package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jotbook-dev/jotbook/internal/id"
	"github.com/jotbook-dev/jotbook/internal/model"
	"github.com/jotbook-dev/jotbook/internal/store"
)

// maxIDAttempts bounds the id-regeneration loop on a primary key clash.
const maxIDAttempts = 3

const insertSQL = `
INSERT INTO records
    (id, title, notes, occurs_at, amount, category, is_expense,
     share_size, split_method, group_id, author, updated_at, sync_status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateSQL = `
UPDATE records SET
    title = ?, notes = ?, occurs_at = ?, amount = ?, category = ?,
    is_expense = ?, share_size = ?, split_method = ?, group_id = ?,
    author = ?, updated_at = ?, sync_status = ?
WHERE id = ?`

const selectCols = `
id, title, notes, occurs_at, amount, category, is_expense,
share_size, split_method, group_id, author, updated_at, sync_status`

// Insert persists a new record, generating an id when blank and
// regenerating on collision up to maxIDAttempts times.
func (s *Store) Insert(ctx context.Context, rec *model.Record) error {
	rec.Normalize()
	if rec.ID == "" {
		rec.ID = id.NewRecordID()
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		_, err := s.db.ExecContext(ctx, insertSQL, insertArgs(rec)...)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("inserting record: %w", err)
		}
		rec.ID = id.NewRecordID()
	}
	return store.ErrDuplicateID
}

// Update rewrites an existing record, reporting whether it was present.
func (s *Store) Update(ctx context.Context, rec *model.Record) (bool, error) {
	rec.Normalize()
	args := append(updateArgs(rec), rec.ID)
	res, err := s.db.ExecContext(ctx, updateSQL, args...)
	if err != nil {
		return false, fmt.Errorf("updating record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating record: %w", err)
	}
	return n > 0, nil
}

// Delete removes a record by id, reporting whether it was present.
func (s *Store) Delete(ctx context.Context, recordID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", recordID)
	if err != nil {
		return false, fmt.Errorf("deleting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting record: %w", err)
	}
	return n > 0, nil
}

// Get returns the record with the given id, or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, recordID string) (*model.Record, error) {
	query := "SELECT" + selectCols + " FROM records WHERE id = ?"
	rows, err := s.db.QueryContext(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("loading record: %w", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, store.ErrNotFound
	}
	return &records[0], nil
}

// All returns every record ordered by occurrence time.
func (s *Store) All(ctx context.Context) ([]model.Record, error) {
	query := "SELECT" + selectCols + " FROM records ORDER BY occurs_at, id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ForDate returns the records occurring on day, using day's own location
// to bound the 24 hours.
func (s *Store) ForDate(ctx context.Context, day time.Time) ([]model.Record, error) {
	start := model.StartOfDay(day)
	end := start.AddDate(0, 0, 1)

	query := "SELECT" + selectCols +
		" FROM records WHERE occurs_at >= ? AND occurs_at < ? ORDER BY occurs_at, id"
	rows, err := s.db.QueryContext(ctx, query, start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("listing records for date: %w", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

// UpsertLatest merges rec by last-writer-wins. Absent ids are inserted;
// present ids are replaced only when rec carries a strictly later
// updatedAt. Ties leave the stored row untouched so replays are no-ops.
func (s *Store) UpsertLatest(ctx context.Context, rec *model.Record) (bool, error) {
	rec.Normalize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback()

	var storedUpdatedAt int64
	err = tx.QueryRowContext(ctx,
		"SELECT updated_at FROM records WHERE id = ?", rec.ID,
	).Scan(&storedUpdatedAt)

	changed := false
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs(rec)...); err != nil {
			return false, fmt.Errorf("upsert insert: %w", err)
		}
		changed = true
	case err != nil:
		return false, fmt.Errorf("upsert lookup: %w", err)
	case rec.UpdatedAt.UnixNano() > storedUpdatedAt:
		args := append(updateArgs(rec), rec.ID)
		if _, err := tx.ExecContext(ctx, updateSQL, args...); err != nil {
			return false, fmt.Errorf("upsert update: %w", err)
		}
		changed = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing upsert: %w", err)
	}
	return changed, nil
}

func insertArgs(rec *model.Record) []any {
	return []any{
		rec.ID, rec.Title, rec.Notes, rec.OccursAt.UnixNano(), amountArg(rec),
		string(rec.Category), boolArg(rec.IsExpense), rec.ShareSize,
		string(rec.SplitMethod), rec.GroupID, rec.Author,
		rec.UpdatedAt.UnixNano(), string(rec.SyncStatus),
	}
}

func updateArgs(rec *model.Record) []any {
	return []any{
		rec.Title, rec.Notes, rec.OccursAt.UnixNano(), amountArg(rec),
		string(rec.Category), boolArg(rec.IsExpense), rec.ShareSize,
		string(rec.SplitMethod), rec.GroupID, rec.Author,
		rec.UpdatedAt.UnixNano(), string(rec.SyncStatus),
	}
}

func amountArg(rec *model.Record) any {
	if rec.Amount == nil {
		return nil
	}
	return rec.Amount.String()
}

func boolArg(b bool) int {
	if b {
		return 1
	}
	return 0
}

func collectRecords(rows *sql.Rows) ([]model.Record, error) {
	var records []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (model.Record, error) {
	var (
		rec        model.Record
		occursAt   int64
		amount     sql.NullString
		category   string
		isExpense  int
		split      string
		updatedAt  int64
		syncStatus string
	)
	err := rows.Scan(&rec.ID, &rec.Title, &rec.Notes, &occursAt, &amount,
		&category, &isExpense, &rec.ShareSize, &split, &rec.GroupID,
		&rec.Author, &updatedAt, &syncStatus)
	if err != nil {
		return model.Record{}, fmt.Errorf("scanning record: %w", err)
	}

	rec.OccursAt = time.Unix(0, occursAt)
	rec.UpdatedAt = time.Unix(0, updatedAt)
	rec.Category = model.Category(category)
	rec.IsExpense = isExpense != 0
	rec.SplitMethod = model.SplitMethod(split)
	rec.SyncStatus = model.SyncStatus(syncStatus)
	if amount.Valid {
		d, err := decimal.NewFromString(amount.String)
		if err != nil {
			return model.Record{}, fmt.Errorf("parsing stored amount %q: %w", amount.String, err)
		}
		rec.Amount = &d
	}
	return rec, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
