// Package database opens and migrates the SQLite file backing the
// notification journal. The journal is the only table BattWatch owns,
// so the pool is pinned to a single connection: one writer, no
// contention, and WAL keeps concurrent readers (sqlite3 CLI, external
// tooling) from blocking it.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// journalDirMode restricts the data directory to the owning user
	// and group.
	journalDirMode = 0750

	// journalFileMode keeps the journal file owner-only. Entries carry
	// device names, which identify the user's hardware.
	journalFileMode = 0600

	// openPingTimeout bounds the connectivity check during Open.
	openPingTimeout = 5 * time.Second
)

// DB is the journal store handle. It embeds sql.DB, so callers query
// it directly; the wrapper adds Open-time setup, migrations, and a
// health check.
type DB struct {
	*sql.DB
}

// Config mirrors the database section of config.yaml.
type Config struct {
	// Path to the journal file. Parent directories are created on Open.
	Path string

	// WALMode switches the journal to write-ahead logging so readers
	// never block the notice writer.
	WALMode bool

	// BusyTimeout in seconds. How long a statement waits on a lock
	// held by another process before failing.
	BusyTimeout int
}

// dsn renders the go-sqlite3 connection string with the pragmas the
// journal needs baked in, so every pooled connection gets them.
func (c Config) dsn() string {
	s := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		c.Path, c.BusyTimeout*1000)
	if c.WALMode {
		s += "&_journal_mode=WAL&_synchronous=NORMAL"
	}
	return s
}

// Open creates the journal store, creating the data directory and
// file on first run, and verifies the connection before returning.
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), journalDirMode); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("opening journal store: %w", err)
	}

	// Single connection: SQLite allows one writer, and the notifier is
	// the only component that writes.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{DB: sqlDB}

	ctx, cancel := context.WithTimeout(context.Background(), openPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying journal store: %w", err)
	}

	// The file may not exist until the first write; ignore the error
	// and rely on the next Open to tighten it.
	_ = os.Chmod(cfg.Path, journalFileMode) //nolint:errcheck // First run creates the file later

	return db, nil
}

// Close releases the journal store. Safe to call on a handle whose
// connection was never established.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing journal store: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to confirm the store is usable.
func (db *DB) HealthCheck(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("journal store health check: %w", err)
	}
	return nil
}
