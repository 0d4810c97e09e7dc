// Package journal provides access to the notification_journal table,
// a record of every user-facing notice the monitor has raised.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Notice kinds stored in the journal. These match the MQTT
// notification topic suffixes.
const (
	KindBatteryLow         = "battery_low"
	KindBatteryFull        = "battery_full"
	KindDeviceConnected    = "device_connected"
	KindDeviceDisconnected = "device_disconnected"
)

// Entry represents a single journalled notice.
type Entry struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	DeviceName   string    `json:"device_name"`
	BatteryLevel *int      `json:"battery_level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Filter controls which entries to return.
type Filter struct {
	Kind       string // optional: filter by notice kind
	DeviceName string // optional: filter by device display name
	Limit      int    // default 50, max 200
	Offset     int    // pagination offset
}

// ListResult contains the paginated journal results.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Repository defines the interface for journal operations.
type Repository interface {
	Record(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository stores journal entries in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new journal repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Record inserts a journal entry. The ID and CreatedAt are generated if empty.
func (r *SQLiteRepository) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = "ntf-" + uuid.NewString()[:8]
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notification_journal (id, kind, device_name, battery_level, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.Kind, entry.DeviceName, entry.BatteryLevel,
		entry.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}

	return nil
}

// List returns entries matching the filter, most recent first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any

	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.DeviceName != "" {
		conditions = append(conditions, "device_name = ?")
		args = append(args, filter.DeviceName)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM notification_journal" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting journal entries: %w", err)
	}

	query := `SELECT id, kind, device_name, battery_level, created_at
		 FROM notification_journal` + where + `
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]Entry, 0, filter.Limit)
	for rows.Next() {
		var e Entry
		var level sql.NullInt64
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Kind, &e.DeviceName, &level, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		if level.Valid {
			l := int(level.Int64)
			e.BatteryLevel = &l
		}
		if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal entries: %w", err)
	}

	return &ListResult{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}
