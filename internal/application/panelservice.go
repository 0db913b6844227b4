// Package application contains use-case orchestration services.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/safehub/internal/domain/lock"
	"github.com/ericfisherdev/safehub/internal/domain/model"
	"github.com/ericfisherdev/safehub/internal/domain/port/driven"
)

// PanelStatus is the externally observable state of one safe after a press
// or a status read.
type PanelStatus struct {
	SafeName string
	State    model.LockState
	Display  string
	Locked   bool
}

// PanelService owns the lock controllers. There is exactly one controller
// per registered safe; a controller is not goroutine-safe, so all access
// goes through the service's mutex. Credentials live only inside the
// controllers: a restart resets every safe to the factory default code.
type PanelService struct {
	safeStore   driven.SafeStore
	eventStore  driven.PanelEventStore
	notifier    driven.AlarmNotifier
	defaultCode string
	policy      lock.Policy
	logger      *slog.Logger

	mu          sync.Mutex
	controllers map[string]*lock.Controller
}

// NewPanelService creates a PanelService. The default code is validated
// eagerly so a misconfigured factory code fails at startup, not on first
// registration. notifier may be nil to disable alarm notifications.
func NewPanelService(
	safeStore driven.SafeStore,
	eventStore driven.PanelEventStore,
	notifier driven.AlarmNotifier,
	defaultCode string,
	policy lock.Policy,
	logger *slog.Logger,
) (*PanelService, error) {
	if _, err := lock.New(defaultCode, policy); err != nil {
		return nil, fmt.Errorf("panel service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PanelService{
		safeStore:   safeStore,
		eventStore:  eventStore,
		notifier:    notifier,
		defaultCode: defaultCode,
		policy:      policy,
		logger:      logger,
		controllers: make(map[string]*lock.Controller),
	}, nil
}

// LoadSafes creates a controller for every registered safe. Called once at
// startup, after migrations.
func (s *PanelService) LoadSafes(ctx context.Context) error {
	safes, err := s.safeStore.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load safes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, safe := range safes {
		c, err := lock.New(s.defaultCode, s.policy)
		if err != nil {
			return fmt.Errorf("load safe %s: %w", safe.Name, err)
		}
		s.controllers[safe.Name] = c
	}

	s.logger.Info("safes loaded", "count", len(safes))
	return nil
}

// RegisterSafe adds a safe to the registry and brings up its controller in
// the idle locked state with the factory default code.
func (s *PanelService) RegisterSafe(ctx context.Context, safe model.Safe) error {
	c, err := lock.New(s.defaultCode, s.policy)
	if err != nil {
		return fmt.Errorf("register safe %s: %w", safe.Name, err)
	}

	if err := s.safeStore.Add(ctx, safe); err != nil {
		return err
	}

	s.mu.Lock()
	s.controllers[safe.Name] = c
	s.mu.Unlock()

	return nil
}

// RemoveSafe deletes a safe from the registry and drops its controller.
// The safe's audit events are removed by foreign key cascade.
func (s *PanelService) RemoveSafe(ctx context.Context, name string) error {
	if err := s.safeStore.Remove(ctx, name); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.controllers, name)
	s.mu.Unlock()

	return nil
}

// Press applies one button press to the named safe and returns the resulting
// status. The press is recorded in the audit trail; an audit write failure
// is logged but does not fail the press, since the physical transition has
// already happened. A transition into the error state fires the alarm
// notifier asynchronously.
func (s *PanelService) Press(ctx context.Context, safeName string, button model.Button) (PanelStatus, error) {
	s.mu.Lock()
	c, ok := s.controllers[safeName]
	if !ok {
		s.mu.Unlock()
		return PanelStatus{}, fmt.Errorf("press %s: %w", safeName, driven.ErrSafeNotFound)
	}

	wasError := c.State() == model.StateErrorLocked
	c.Submit(button)
	status := PanelStatus{
		SafeName: safeName,
		State:    c.State(),
		Display:  c.Display(),
		Locked:   c.IsLocked(),
	}
	s.mu.Unlock()

	event := model.PanelEvent{
		SafeName:  safeName,
		Button:    button,
		State:     status.State,
		Display:   status.Display,
		Locked:    status.Locked,
		PressedAt: time.Now().UTC(),
	}

	if err := s.eventStore.Append(ctx, event); err != nil {
		s.logger.Error("failed to record panel event", "safe", safeName, "button", button, "error", err)
	}

	if s.notifier != nil && status.State == model.StateErrorLocked && !wasError {
		// Fire-and-forget with a background context: the press response
		// must not wait on the webhook, and the request context dies with
		// the response.
		go func() {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.notifier.NotifyError(notifyCtx, safeName, event); err != nil {
				s.logger.Error("alarm notification failed", "safe", safeName, "error", err)
			}
		}()
	}

	return status, nil
}

// Status returns the current status of the named safe. Pure read; nothing is
// recorded.
func (s *PanelService) Status(safeName string) (PanelStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.controllers[safeName]
	if !ok {
		return PanelStatus{}, fmt.Errorf("status %s: %w", safeName, driven.ErrSafeNotFound)
	}

	return PanelStatus{
		SafeName: safeName,
		State:    c.State(),
		Display:  c.Display(),
		Locked:   c.IsLocked(),
	}, nil
}
