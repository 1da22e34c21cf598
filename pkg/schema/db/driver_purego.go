//go:build !cgo_sqlite

package db

import (
	"fmt"
	"path/filepath"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName    = "sqlite"
	sqliteDriverPackage = "modernc.org/sqlite"
)

func sqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", filepath.ToSlash(path))
}
