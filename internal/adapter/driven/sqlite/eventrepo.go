package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/safehub/internal/domain/model"
	"github.com/ericfisherdev/safehub/internal/domain/port/driven"
)

// defaultEventLimit caps ListBySafe when the caller passes a non-positive
// limit.
const defaultEventLimit = 100

// Compile-time interface satisfaction check.
var _ driven.PanelEventStore = (*PanelEventRepo)(nil)

// PanelEventRepo is the SQLite implementation of the PanelEventStore port
// interface. The table is append-only from the application's point of view;
// rows only leave via retention purge or safe removal cascade.
type PanelEventRepo struct {
	db *DB
}

// NewPanelEventRepo creates a new PanelEventRepo backed by the given DB.
func NewPanelEventRepo(db *DB) *PanelEventRepo {
	return &PanelEventRepo{db: db}
}

// Append records one press event.
func (r *PanelEventRepo) Append(ctx context.Context, event model.PanelEvent) error {
	const query = `INSERT INTO panel_events (safe_name, button, state, display, locked, pressed_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	pressedAt := event.PressedAt
	if pressedAt.IsZero() {
		pressedAt = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		event.SafeName, string(event.Button), string(event.State),
		event.Display, event.Locked, pressedAt,
	)
	if err != nil {
		return fmt.Errorf("append panel event for %s: %w", event.SafeName, err)
	}

	return nil
}

// ListBySafe returns up to limit events for a safe, most recent first.
func (r *PanelEventRepo) ListBySafe(ctx context.Context, safeName string, limit int) ([]model.PanelEvent, error) {
	const query = `SELECT id, safe_name, button, state, display, locked, pressed_at
		FROM panel_events WHERE safe_name = ?
		ORDER BY pressed_at DESC, id DESC LIMIT ?`

	if limit <= 0 {
		limit = defaultEventLimit
	}

	rows, err := r.db.Reader.QueryContext(ctx, query, safeName, limit)
	if err != nil {
		return nil, fmt.Errorf("list panel events for %s: %w", safeName, err)
	}
	defer rows.Close()

	var events []model.PanelEvent
	for rows.Next() {
		var ev model.PanelEvent
		var button, state, pressedAt string

		if err := rows.Scan(&ev.ID, &ev.SafeName, &button, &state, &ev.Display, &ev.Locked, &pressedAt); err != nil {
			return nil, fmt.Errorf("scan panel event: %w", err)
		}

		ev.Button = model.Button(button)
		ev.State = model.LockState(state)
		ev.PressedAt, err = parseTime(pressedAt)
		if err != nil {
			return nil, fmt.Errorf("parse pressed_at: %w", err)
		}

		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate panel events: %w", err)
	}

	return events, nil
}

// CountBySafe returns the total number of recorded events for a safe.
func (r *PanelEventRepo) CountBySafe(ctx context.Context, safeName string) (int, error) {
	const query = `SELECT COUNT(*) FROM panel_events WHERE safe_name = ?`

	var count int
	if err := r.db.Reader.QueryRowContext(ctx, query, safeName).Scan(&count); err != nil {
		return 0, fmt.Errorf("count panel events for %s: %w", safeName, err)
	}

	return count, nil
}

// PurgeBefore deletes events older than cutoff and returns the number
// removed.
func (r *PanelEventRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int, error) {
	const query = `DELETE FROM panel_events WHERE pressed_at < ?`

	result, err := r.db.Writer.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge panel events: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check rows affected: %w", err)
	}

	return int(rows), nil
}
