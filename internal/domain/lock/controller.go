// Package lock implements the safe's lock controller state machine. One
// Controller instance models one physical safe: a fixed set of buttons drives
// deterministic transitions between five states, and the only observable
// outputs are a six-character display and the derived lock flag.
package lock

import (
	"fmt"

	"github.com/ericfisherdev/safehub/internal/domain/model"
)

// codeLength is the number of digits in a credential.
const codeLength = 6

// Policy resolves the transition-table cases the originating user stories
// left open. The zero value is the conservative default: every open case is
// a no-op.
type Policy struct {
	// KeyCancelsSetting makes KEY abandon an in-progress credential change
	// and return to the unlocked state. Default: KEY is ignored while
	// setting a code.
	KeyCancelsSetting bool

	// LockAbortsEntry makes LOCK abandon an in-progress credential entry
	// and return to the idle locked state. Default: LOCK is ignored
	// mid-entry.
	LockAbortsEntry bool

	// PinChangeRestartsSetting makes a PIN-CHANGE press with an empty
	// change buffer clear the display and restart the change. Default: it
	// is rejected as an incomplete commit and ignored.
	PinChangeRestartsSetting bool
}

// Controller is the lock state machine for a single safe. All mutable state
// is held by the instance, so independent safes coexist without shared
// globals. A Controller is not safe for concurrent use; callers serialize
// Submit externally.
type Controller struct {
	state      model.LockState
	credential [codeLength]byte
	buffer     []byte
	display    string
	policy     Policy
}

// New creates a Controller in the idle locked state with a blank display and
// the given factory default credential. The code must be exactly six decimal
// digits.
func New(defaultCode string, policy Policy) (*Controller, error) {
	c := &Controller{
		state:   model.StateIdleLocked,
		buffer:  make([]byte, 0, codeLength),
		display: model.DisplayBlank,
		policy:  policy,
	}

	if err := c.setCredential(defaultCode); err != nil {
		return nil, fmt.Errorf("default code: %w", err)
	}

	return c, nil
}

// Submit applies one button press. Every state/input pair has a defined
// transition, so Submit is total: undefined combinations are no-ops and
// nothing here returns an error or panics for a Button in the defined set.
func (c *Controller) Submit(b model.Button) {
	switch c.state {
	case model.StateIdleLocked:
		c.submitIdleLocked(b)
	case model.StateErrorLocked:
		c.submitErrorLocked(b)
	case model.StateEnteringCode:
		c.submitEnteringCode(b)
	case model.StateUnlocked:
		c.submitUnlocked(b)
	case model.StateSettingCode:
		c.submitSettingCode(b)
	}
}

// Display returns the current display value. Pure read, always exactly six
// characters.
func (c *Controller) Display() string {
	return c.display
}

// IsLocked reports whether the safe is locked. Pure read, derived from the
// state tag.
func (c *Controller) IsLocked() bool {
	return c.state.Locked()
}

// State returns the current state tag. Pure read, used for auditing.
func (c *Controller) State() model.LockState {
	return c.state
}

func (c *Controller) submitIdleLocked(b model.Button) {
	switch {
	case b == model.ButtonKey:
		c.state = model.StateEnteringCode
		c.buffer = c.buffer[:0]
		c.display = model.DisplayBlank
	case b.IsDigit():
		// Digit without KEY first: sticky error until KEY clears it.
		c.state = model.StateErrorLocked
		c.display = model.DisplayError
	}
	// LOCK and PIN-CHANGE are no-ops while idle.
}

func (c *Controller) submitErrorLocked(b model.Button) {
	if b == model.ButtonKey {
		c.state = model.StateEnteringCode
		c.buffer = c.buffer[:0]
		c.display = model.DisplayBlank
		return
	}
	c.display = model.DisplayError
}

func (c *Controller) submitEnteringCode(b model.Button) {
	switch {
	case b.IsDigit():
		ch, _ := b.DigitChar()
		c.buffer = append(c.buffer, ch)
		if len(c.buffer) < codeLength {
			c.display = model.PadDisplay(string(c.buffer))
			return
		}
		// Sixth digit always decides in the same transition: the buffer is
		// never left full and pending.
		matched := c.bufferMatchesCredential()
		c.buffer = c.buffer[:0]
		if matched {
			c.state = model.StateUnlocked
			c.display = model.DisplayOpen
		} else {
			c.state = model.StateIdleLocked
			c.display = model.DisplayBlank
		}
	case b == model.ButtonKey:
		// Re-entry: discard progress, stay in entry.
		c.buffer = c.buffer[:0]
		c.display = model.DisplayBlank
	case b == model.ButtonLock && c.policy.LockAbortsEntry:
		c.state = model.StateIdleLocked
		c.buffer = c.buffer[:0]
		c.display = model.DisplayBlank
	}
	// LOCK (default policy) and PIN-CHANGE are no-ops mid-entry.
}

func (c *Controller) submitUnlocked(b model.Button) {
	switch b {
	case model.ButtonLock:
		c.state = model.StateIdleLocked
		c.display = model.DisplayClosed
	case model.ButtonPinChange:
		c.state = model.StateSettingCode
		c.buffer = c.buffer[:0]
		c.display = model.DisplayBlank
	}
	// Digits and KEY are no-ops while open.
}

func (c *Controller) submitSettingCode(b model.Button) {
	switch {
	case b.IsDigit():
		if len(c.buffer) == codeLength {
			// Clamped at six: extra digits are dropped.
			return
		}
		ch, _ := b.DigitChar()
		c.buffer = append(c.buffer, ch)
		c.display = model.PadDisplay(string(c.buffer))
	case b == model.ButtonPinChange:
		if len(c.buffer) == codeLength {
			copy(c.credential[:], c.buffer)
			c.buffer = c.buffer[:0]
			c.state = model.StateUnlocked
			c.display = model.DisplayCode
			return
		}
		if len(c.buffer) == 0 && c.policy.PinChangeRestartsSetting {
			c.display = model.DisplayBlank
		}
		// Incomplete commit rejected; stay in setting.
	case b == model.ButtonKey && c.policy.KeyCancelsSetting:
		c.state = model.StateUnlocked
		c.buffer = c.buffer[:0]
		c.display = model.DisplayOpen
	}
	// LOCK and KEY (default policy) are no-ops while setting a code.
}

// bufferMatchesCredential compares the full entry buffer against the
// credential as a whole sequence. All six positions are checked; there is no
// short-circuit that could leak match length.
func (c *Controller) bufferMatchesCredential() bool {
	match := true
	for i := 0; i < codeLength; i++ {
		if c.buffer[i] != c.credential[i] {
			match = false
		}
	}
	return match
}

// setCredential validates and installs a credential wholesale.
func (c *Controller) setCredential(code string) error {
	if len(code) != codeLength {
		return fmt.Errorf("code must be %d digits, got %d characters", codeLength, len(code))
	}
	for i := 0; i < codeLength; i++ {
		if code[i] < '0' || code[i] > '9' {
			return fmt.Errorf("code must contain only decimal digits")
		}
	}
	copy(c.credential[:], code)
	return nil
}
