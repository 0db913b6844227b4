package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/safehub/internal/domain/model"
	"github.com/ericfisherdev/safehub/internal/domain/port/driven"
)

// signalWindow is how many recent events feed the panel signal computation.
const signalWindow = 50

// ComputePanelSignals evaluates a safe's recent audit events (most recent
// first, as returned by the event store) and reports which warning signals
// are active. leftOpenAfter is how long a safe may sit unlocked without
// activity before LeftOpen trips.
func ComputePanelSignals(events []model.PanelEvent, now time.Time, leftOpenAfter time.Duration) model.PanelSignals {
	signals := model.PanelSignals{}

	// ErrorStreak: consecutive most-recent events in the error state.
	for _, ev := range events {
		if ev.State != model.StateErrorLocked {
			break
		}
		signals.ErrorStreak++
	}

	// FailedEntries: a digit press that lands back in idle is the sixth
	// digit of an entry that did not match.
	for _, ev := range events {
		if ev.Button.IsDigit() && ev.State == model.StateIdleLocked {
			signals.FailedEntries++
		}
	}

	// LeftOpen: the latest event left the safe unlocked and nothing has
	// happened since the threshold.
	if len(events) > 0 {
		latest := events[0]
		signals.LeftOpen = !latest.Locked && now.Sub(latest.PressedAt) >= leftOpenAfter
	}

	return signals
}

// AuditService serves the press audit trail and derived panel signals for
// the API and the web panel.
type AuditService struct {
	eventStore    driven.PanelEventStore
	leftOpenAfter time.Duration
	logger        *slog.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(eventStore driven.PanelEventStore, leftOpenAfter time.Duration) *AuditService {
	return &AuditService{
		eventStore:    eventStore,
		leftOpenAfter: leftOpenAfter,
		logger:        slog.Default(),
	}
}

// ListEvents returns up to limit audit events for a safe, most recent first.
func (s *AuditService) ListEvents(ctx context.Context, safeName string, limit int) ([]model.PanelEvent, error) {
	return s.eventStore.ListBySafe(ctx, safeName, limit)
}

// SignalsFor computes the active panel signals for a safe from its recent
// events. A store error degrades to no signals (non-fatal); the panel still
// renders.
func (s *AuditService) SignalsFor(ctx context.Context, safeName string) model.PanelSignals {
	events, err := s.eventStore.ListBySafe(ctx, safeName, signalWindow)
	if err != nil {
		s.logger.Warn("failed to load events for signals", "safe", safeName, "error", err)
		return model.PanelSignals{}
	}

	return ComputePanelSignals(events, time.Now().UTC(), s.leftOpenAfter)
}

// PurgeOldEvents deletes events older than the retention cutoff. Intended to
// be called periodically from the composition root.
func (s *AuditService) PurgeOldEvents(ctx context.Context, retention time.Duration) {
	cutoff := time.Now().UTC().Add(-retention)
	removed, err := s.eventStore.PurgeBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("event purge failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("purged old panel events", "removed", removed, "cutoff", cutoff)
	}
}
