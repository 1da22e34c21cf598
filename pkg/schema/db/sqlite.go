package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLiteDriverPackage returns the import path of the SQLite driver in use.
func SQLiteDriverPackage() string {
	return sqliteDriverPackage
}

// OpenSQLite opens (creating if needed) the SQLite database at path and verifies connectivity.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLITE_PATH is required")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	sqlDB, err := sqlx.Open(sqliteDriverName, sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// WAL lets readers proceed on their own connections; writes only come from the importer.
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping SQLite: %w", err)
	}
	return sqlDB, nil
}
