package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
		skip []string
	}{
		{
			name: "wal enabled",
			cfg:  Config{Path: "/var/lib/battwatch/journal.db", WALMode: true, BusyTimeout: 5},
			want: []string{"file:/var/lib/battwatch/journal.db", "_busy_timeout=5000", "_journal_mode=WAL", "_foreign_keys=on"},
		},
		{
			name: "wal disabled",
			cfg:  Config{Path: "journal.db", BusyTimeout: 2},
			want: []string{"_busy_timeout=2000"},
			skip: []string{"_journal_mode"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.dsn()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("dsn() = %q, missing %q", got, w)
				}
			}
			for _, s := range tt.skip {
				if strings.Contains(got, s) {
					t.Errorf("dsn() = %q, should not contain %q", got, s)
				}
			}
		})
	}
}

func TestOpenCreatesStore(t *testing.T) {
	// Nested path: Open must create the data directory, not just the file.
	path := filepath.Join(t.TempDir(), "data", "journal.db")

	db, err := Open(Config{Path: path, WALMode: true, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close() //nolint:errcheck // Test cleanup

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("journal directory not created: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("journal file not created: %v", err)
	}
}

func TestJournalRoundTrip(t *testing.T) {
	db := openTestStore(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
		CREATE TABLE notification_journal (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			device_name TEXT NOT NULL,
			battery_level INTEGER,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("creating journal table: %v", err)
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO notification_journal (id, kind, device_name, battery_level, created_at) VALUES (?, ?, ?, ?, ?)",
		"ntf-test0001", "battery_low", "Razer Viper Ultimate", 5, "2026-08-30T10:00:00Z")
	if err != nil {
		t.Fatalf("inserting notice: %v", err)
	}

	var kind string
	var level int
	err = db.QueryRowContext(ctx,
		"SELECT kind, battery_level FROM notification_journal WHERE id = ?",
		"ntf-test0001").Scan(&kind, &level)
	if err != nil {
		t.Fatalf("reading notice back: %v", err)
	}
	if kind != "battery_low" || level != 5 {
		t.Errorf("stored notice = (%q, %d), want (battery_low, 5)", kind, level)
	}
}

func TestHealthCheck(t *testing.T) {
	db := openTestStore(t)
	defer db.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestCloseWithoutConnection(t *testing.T) {
	db := openTestStore(t)
	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	db.DB = nil
	if err := db.Close(); err != nil {
		t.Errorf("Close() without connection error = %v", err)
	}
}

// openTestStore opens a throwaway journal store under t.TempDir.
func openTestStore(t *testing.T) *DB {
	t.Helper()

	db, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "journal.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test journal store: %v", err)
	}
	return db
}
