package model

// LockState represents the state of a safe's lock controller.
type LockState string

const (
	// StateIdleLocked is the initial state: locked, blank display, waiting
	// for KEY to start a credential entry.
	StateIdleLocked LockState = "idle_locked"
	// StateErrorLocked is the sticky error state entered when a digit is
	// pressed without KEY first. Only KEY clears it.
	StateErrorLocked LockState = "error_locked"
	// StateEnteringCode means a six-digit credential entry is in progress.
	StateEnteringCode LockState = "entering_code"
	// StateUnlocked means the last entry matched and the safe is open.
	StateUnlocked LockState = "unlocked"
	// StateSettingCode means a replacement credential is being keyed in.
	StateSettingCode LockState = "setting_code"
)

// Locked derives the lock flag from the state tag. The safe is open exactly
// while unlocked or mid credential-change; there is no separately stored
// locked field that could fall out of sync.
func (s LockState) Locked() bool {
	return s != StateUnlocked && s != StateSettingCode
}

// DisplayWidth is the fixed character width of the front-panel display.
const DisplayWidth = 6

// Fixed display values shown by the lock controller. Each is exactly
// DisplayWidth characters.
const (
	DisplayBlank  = "      "
	DisplayError  = "ERROR "
	DisplayOpen   = "OPEN  "
	DisplayClosed = "CLOSED"
	DisplayCode   = "CODE  "
)

// PadDisplay right-pads s with spaces to DisplayWidth. Content longer than
// the display is truncated; the panel never shows more than six characters.
func PadDisplay(s string) string {
	if len(s) >= DisplayWidth {
		return s[:DisplayWidth]
	}
	buf := make([]byte, DisplayWidth)
	copy(buf, s)
	for i := len(s); i < DisplayWidth; i++ {
		buf[i] = ' '
	}
	return string(buf)
}
