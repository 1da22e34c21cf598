//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package db

import (
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteDriverName    = "sqlite3"
	sqliteDriverPackage = "github.com/mattn/go-sqlite3"
)

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", filepath.ToSlash(path))
}
