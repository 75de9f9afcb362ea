// Package local is the device-side durable store: the offline submission
// queue and a small key/value area for device state. Backed by a single
// SQLite file so queued work survives process restarts.
package local

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS queue_items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	payload     TEXT NOT NULL,
	delta       TEXT NOT NULL,
	enqueued_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS device_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// technicianKey holds the last-used technician identity so ambient tracking
// can resume after a restart without the form being opened.
const technicianKey = "technician"

// Store is the durable local store.
type Store struct {
	conn *sql.DB
}

// Open opens (and if needed creates) the local store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping local store: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create local schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Technician returns the persisted technician identity, or "" when unset.
func (s *Store) Technician(ctx context.Context) (string, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT value FROM device_state WHERE key = ?`, technicianKey)
	var name string
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return name, nil
}

// SetTechnician persists the technician identity for this device.
func (s *Store) SetTechnician(ctx context.Context, name string) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO device_state(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		technicianKey, name)
	if err != nil {
		return fmt.Errorf("failed to persist technician identity: %w", err)
	}
	return nil
}
