package db

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/sola-scriptura-reader-api/pkg/schema/config"
)

// Supported storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var (
	store     *sqlx.DB
	storeOnce sync.Once
	storeMu   sync.RWMutex
)

// backend tracks which backend Init connected to; empty until Init succeeds
var backend string

// Open connects to the backend named in cfg. The caller owns the returned pool.
func Open(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.StoreBackend {
	case "", BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case BackendPostgres:
		return OpenPostgres(ctx, cfg.PostgresURI, cfg.PostgresDriver)
	default:
		return nil, fmt.Errorf("unsupported STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// OpenExisting is Open for read-only callers: a SQLite database file that does
// not exist yet is reported instead of created.
func OpenExisting(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	if BackendName(cfg.StoreBackend) == BackendSQLite {
		if _, err := os.Stat(cfg.SQLitePath); err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
	}
	return Open(ctx, cfg)
}

// Init initializes the process-wide connection pool from configuration and ensures the schema.
func Init(ctx context.Context) error {
	var initErr error
	storeOnce.Do(func() {
		cfg := config.GetConfig()

		sqlDB, err := Open(ctx, cfg)
		if err != nil {
			initErr = err
			return
		}
		name := BackendName(cfg.StoreBackend)
		if err := EnsureSchema(ctx, sqlDB, name); err != nil {
			_ = sqlDB.Close()
			initErr = err
			return
		}

		storeMu.Lock()
		store = sqlDB
		backend = name
		storeMu.Unlock()
	})
	return initErr
}

// BackendName normalizes a configured backend value.
func BackendName(configured string) string {
	if configured == "" {
		return BackendSQLite
	}
	return configured
}

// Backend returns the backend Init connected to
func Backend() string {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return backend
}

// Get returns the database pool
func Get() *sqlx.DB {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return store
}

// Close closes the database pool
func Close() error {
	storeMu.Lock()
	defer storeMu.Unlock()
	if store != nil {
		return store.Close()
	}
	return nil
}
