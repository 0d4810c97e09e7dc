package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE notification_journal (
		id            TEXT PRIMARY KEY,
		kind          TEXT NOT NULL,
		device_name   TEXT NOT NULL,
		battery_level INTEGER,
		created_at    TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatalf("creating table: %v", err)
	}
	return db
}

func TestRecordGeneratesIDAndTimestamp(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))

	level := 4
	entry := &Entry{
		Kind:         KindBatteryLow,
		DeviceName:   "Razer Viper Ultimate",
		BatteryLevel: &level,
	}
	if err := repo.Record(context.Background(), entry); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if entry.ID == "" {
		t.Error("ID not generated")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestListFilters(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))
	ctx := context.Background()

	level := 12
	entries := []*Entry{
		{Kind: KindBatteryLow, DeviceName: "Razer Viper Ultimate", BatteryLevel: &level},
		{Kind: KindBatteryFull, DeviceName: "Razer Viper Ultimate"},
		{Kind: KindDeviceConnected, DeviceName: "Razer Naga Pro"},
	}
	for _, e := range entries {
		if err := repo.Record(ctx, e); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	all, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if all.Total != 3 || len(all.Entries) != 3 {
		t.Errorf("unfiltered: total=%d entries=%d, want 3/3", all.Total, len(all.Entries))
	}

	byKind, err := repo.List(ctx, Filter{Kind: KindBatteryLow})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if byKind.Total != 1 {
		t.Errorf("kind filter: total=%d, want 1", byKind.Total)
	}
	if got := byKind.Entries[0]; got.BatteryLevel == nil || *got.BatteryLevel != 12 {
		t.Errorf("battery level not round-tripped: %+v", got)
	}

	byDevice, err := repo.List(ctx, Filter{DeviceName: "Razer Naga Pro"})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if byDevice.Total != 1 || byDevice.Entries[0].Kind != KindDeviceConnected {
		t.Errorf("device filter: %+v", byDevice)
	}
}

func TestListClampsLimit(t *testing.T) {
	repo := NewSQLiteRepository(openTestDB(t))

	res, err := repo.List(context.Background(), Filter{Limit: 1000, Offset: -5})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if res.Limit != 200 {
		t.Errorf("Limit = %d, want clamped to 200", res.Limit)
	}
	if res.Offset != 0 {
		t.Errorf("Offset = %d, want clamped to 0", res.Offset)
	}
}
