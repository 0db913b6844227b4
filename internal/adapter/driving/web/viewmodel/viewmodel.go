// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// SafeCardViewModel holds presentation-ready data for a safe card on the
// dashboard grid.
type SafeCardViewModel struct {
	Name       string
	Location   string
	State      string
	Display    string
	Locked     bool
	IsError    bool
	Severity   int
	DetailPath string
}

// KeypadButtonViewModel is one button on the rendered keypad.
type KeypadButtonViewModel struct {
	Value     string // wire identifier posted to the press endpoint
	Label     string // text on the button face
	IsControl bool
}

// EventRowViewModel holds presentation-ready data for one audit trail row.
type EventRowViewModel struct {
	ButtonLabel string
	State       string
	Display     string
	Locked      bool
	PressedAt   string
}

// SafePanelViewModel holds presentation-ready data for the full safe panel
// page.
type SafePanelViewModel struct {
	SafeCardViewModel

	NotesHTML     string // sanitized markdown, safe to render unescaped
	ErrorStreak   int
	FailedEntries int
	LeftOpen      bool

	Keypad []KeypadButtonViewModel
	Events []EventRowViewModel

	PressURL string // POST target for keypad presses
	NotesURL string // POST target for notes updates
}
