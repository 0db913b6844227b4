package model

// Button identifies one physical button on the safe's front panel.
type Button string

const (
	ButtonDigit0    Button = "digit_0"
	ButtonDigit1    Button = "digit_1"
	ButtonDigit2    Button = "digit_2"
	ButtonDigit3    Button = "digit_3"
	ButtonDigit4    Button = "digit_4"
	ButtonDigit5    Button = "digit_5"
	ButtonDigit6    Button = "digit_6"
	ButtonDigit7    Button = "digit_7"
	ButtonDigit8    Button = "digit_8"
	ButtonDigit9    Button = "digit_9"
	ButtonLock      Button = "lock"
	ButtonKey       Button = "key"
	ButtonPinChange Button = "pin_change"
)

// digitChars is the explicit button-to-display-character table. The mapping
// is keyed by button identity, not declaration order, so reordering the
// constants above cannot change what a button prints.
var digitChars = map[Button]byte{
	ButtonDigit0: '0',
	ButtonDigit1: '1',
	ButtonDigit2: '2',
	ButtonDigit3: '3',
	ButtonDigit4: '4',
	ButtonDigit5: '5',
	ButtonDigit6: '6',
	ButtonDigit7: '7',
	ButtonDigit8: '8',
	ButtonDigit9: '9',
}

// buttonForDigit is the inverse of digitChars.
var buttonForDigit = map[byte]Button{}

func init() {
	for b, ch := range digitChars {
		buttonForDigit[ch] = b
	}
}

// IsDigit reports whether the button is one of the ten digit buttons.
// Everything else (LOCK, KEY, PIN-CHANGE) is a control button.
func (b Button) IsDigit() bool {
	_, ok := digitChars[b]
	return ok
}

// DigitChar returns the display character for a digit button. The boolean is
// false for control buttons.
func (b Button) DigitChar() (byte, bool) {
	ch, ok := digitChars[b]
	return ch, ok
}

// DigitButton returns the button for a decimal digit character ('0'–'9').
// The boolean is false for any other byte.
func DigitButton(ch byte) (Button, bool) {
	b, ok := buttonForDigit[ch]
	return b, ok
}

// ParseButton converts the wire form of a button identifier to a Button.
// The boolean is false for identifiers outside the defined set.
func ParseButton(s string) (Button, bool) {
	switch b := Button(s); b {
	case ButtonLock, ButtonKey, ButtonPinChange:
		return b, true
	default:
		if b.IsDigit() {
			return b, true
		}
		return "", false
	}
}
