package model

import "time"

// PanelEvent is one audit record: a single button press and the controller
// state observed immediately after the transition it caused.
type PanelEvent struct {
	ID        int64
	SafeName  string
	Button    Button
	State     LockState // State after the transition.
	Display   string    // Display after the transition; always six characters.
	Locked    bool      // Lock flag after the transition.
	PressedAt time.Time
}
