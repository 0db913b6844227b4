package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/safehub/internal/domain/model"
)

// PanelEventStore defines the driven port for the append-only press audit
// trail.
type PanelEventStore interface {
	// Append records one press. The event's ID is assigned by the store.
	Append(ctx context.Context, event model.PanelEvent) error

	// ListBySafe returns up to limit events for a safe, most recent first.
	ListBySafe(ctx context.Context, safeName string, limit int) ([]model.PanelEvent, error)

	// CountBySafe returns the total number of recorded events for a safe.
	CountBySafe(ctx context.Context, safeName string) (int, error)

	// PurgeBefore deletes events older than cutoff and returns the number
	// removed.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int, error)
}
