package sqlite

import "database/sql"

// schema is applied on startup; statements are idempotent so reopening an
// existing database is safe. Timestamps are stored as unix nanoseconds to
// keep last-writer-wins comparisons exact.
const schema = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    occurs_at INTEGER NOT NULL,
    amount TEXT,
    category TEXT NOT NULL,
    is_expense INTEGER NOT NULL,
    share_size INTEGER NOT NULL,
    split_method TEXT NOT NULL,
    group_id TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL,
    updated_at INTEGER NOT NULL,
    sync_status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_occurs_at ON records(occurs_at);
CREATE INDEX IF NOT EXISTS idx_records_group_id ON records(group_id);
`

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
