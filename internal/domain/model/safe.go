package model

import "time"

// Safe is a registered safe tracked by SafeHub. Name is the stable external
// identifier used in API paths. The credential is deliberately absent: it
// lives only inside the lock controller and is never persisted or exposed.
type Safe struct {
	ID        int64
	Name      string
	Location  string
	Notes     string // Operator notes in markdown, rendered on the panel page.
	CreatedAt time.Time
}
