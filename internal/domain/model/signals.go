package model

// PanelSignals is a transient model computed at query time from a safe's
// recent audit events. It is never persisted to the database.
type PanelSignals struct {
	ErrorStreak   int  // consecutive most-recent events in the error state
	FailedEntries int  // completed six-digit entries that did not unlock
	LeftOpen      bool // currently unlocked with no activity past the threshold
}

// HasAny returns true if any panel signal is active.
func (s PanelSignals) HasAny() bool {
	return s.ErrorStreak > 0 || s.FailedEntries > 0 || s.LeftOpen
}

// Severity returns the count of active signal kinds (0 to 3), used to determine
// badge color intensity in the UI.
func (s PanelSignals) Severity() int {
	count := 0
	if s.ErrorStreak > 0 {
		count++
	}
	if s.FailedEntries > 0 {
		count++
	}
	if s.LeftOpen {
		count++
	}
	return count
}
