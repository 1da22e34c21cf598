package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// No uniqueness or foreign keys: duplicate (book, chapter, verse) rows are
// kept and resolved by insertion order.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS verses (
    book    TEXT,
    chapter INTEGER,
    verse   INTEGER,
    text    TEXT
);
CREATE INDEX IF NOT EXISTS idx_verses_ref ON verses(book, chapter, verse);
`

// PostgreSQL has no rowid, so a surrogate id records insertion order.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS verses (
    id      BIGSERIAL PRIMARY KEY,
    book    TEXT,
    chapter INTEGER,
    verse   INTEGER,
    text    TEXT
);
CREATE INDEX IF NOT EXISTS idx_verses_ref ON verses(book, chapter, verse);
`

// EnsureSchema creates the verses table for the given backend if it does not exist.
func EnsureSchema(ctx context.Context, sqlDB *sqlx.DB, backend string) error {
	var ddl string
	switch BackendName(backend) {
	case BackendSQLite:
		ddl = sqliteSchema
	case BackendPostgres:
		ddl = postgresSchema
	default:
		return fmt.Errorf("unsupported backend %q", backend)
	}
	if _, err := sqlDB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
