package local

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fieldops/models"
)

// Append persists one queue item and returns its id. Autoincrement ids give
// the FIFO order the drain relies on.
func (s *Store) Append(ctx context.Context, item models.QueueItem) (int64, error) {
	payload, err := json.Marshal(item.Payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal queued submission: %w", err)
	}
	delta, err := json.Marshal(item.Delta)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal aggregate delta: %w", err)
	}
	if item.EnqueuedAt.IsZero() {
		item.EnqueuedAt = time.Now()
	}

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO queue_items(payload, delta, enqueued_at) VALUES(?, ?, ?)`,
		string(payload), string(delta), item.EnqueuedAt.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to append queue item: %w", err)
	}
	return res.LastInsertId()
}

// List returns all pending items in FIFO order.
func (s *Store) List(ctx context.Context) ([]models.QueueItem, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, payload, delta, enqueued_at FROM queue_items ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.QueueItem
	for rows.Next() {
		var (
			item       models.QueueItem
			payload    string
			delta      string
			enqueuedMs int64
		)
		if err := rows.Scan(&item.ID, &payload, &delta, &enqueuedMs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &item.Payload); err != nil {
			return nil, fmt.Errorf("corrupt queue item %d: %w", item.ID, err)
		}
		if err := json.Unmarshal([]byte(delta), &item.Delta); err != nil {
			return nil, fmt.Errorf("corrupt queue item %d: %w", item.ID, err)
		}
		item.EnqueuedAt = time.UnixMilli(enqueuedMs).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

// Remove deletes one delivered item.
func (s *Store) Remove(ctx context.Context, id int64) error {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM queue_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove queue item %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("queue item %d not found", id)
	}
	return nil
}

// Count returns the number of pending items.
func (s *Store) Count(ctx context.Context) (int, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM queue_items`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
