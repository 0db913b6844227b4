package web

import (
	"fmt"
	"strings"
	"time"

	vm "github.com/ericfisherdev/safehub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/safehub/internal/application"
	"github.com/ericfisherdev/safehub/internal/domain/model"
)

// toSafeCardViewModel converts one safe plus its live panel status into a
// dashboard card. Pass model.PanelSignals{} when signals are unavailable.
func toSafeCardViewModel(safe model.Safe, status application.PanelStatus, signals model.PanelSignals) vm.SafeCardViewModel {
	return vm.SafeCardViewModel{
		Name:       safe.Name,
		Location:   safe.Location,
		State:      stateLabel(status.State),
		Display:    status.Display,
		Locked:     status.Locked,
		IsError:    status.State == model.StateErrorLocked,
		Severity:   signals.Severity(),
		DetailPath: fmt.Sprintf("/app/safes/%s", safe.Name),
	}
}

// toSafePanelViewModel converts a safe, its status, signals, and recent
// events into the full panel page view model.
func toSafePanelViewModel(
	safe model.Safe,
	status application.PanelStatus,
	signals model.PanelSignals,
	events []model.PanelEvent,
) vm.SafePanelViewModel {
	rows := make([]vm.EventRowViewModel, 0, len(events))
	for _, e := range events {
		rows = append(rows, vm.EventRowViewModel{
			ButtonLabel: buttonLabel(e.Button),
			State:       stateLabel(e.State),
			Display:     e.Display,
			Locked:      e.Locked,
			PressedAt:   e.PressedAt.UTC().Format(time.RFC3339),
		})
	}

	return vm.SafePanelViewModel{
		SafeCardViewModel: toSafeCardViewModel(safe, status, signals),
		NotesHTML:         RenderMarkdown(safe.Notes),
		ErrorStreak:       signals.ErrorStreak,
		FailedEntries:     signals.FailedEntries,
		LeftOpen:          signals.LeftOpen,
		Keypad:            keypadLayout(),
		Events:            rows,
		PressURL:          fmt.Sprintf("/app/safes/%s/press", safe.Name),
		NotesURL:          fmt.Sprintf("/app/safes/%s/notes", safe.Name),
	}
}

// keypadLayout returns the buttons in physical panel order: digits 1-9 in a
// phone grid, then 0, then the three control buttons.
func keypadLayout() []vm.KeypadButtonViewModel {
	buttons := make([]vm.KeypadButtonViewModel, 0, 13)
	for ch := byte('1'); ch <= '9'; ch++ {
		b, _ := model.DigitButton(ch)
		buttons = append(buttons, vm.KeypadButtonViewModel{Value: string(b), Label: string(ch)})
	}
	zero, _ := model.DigitButton('0')
	buttons = append(buttons,
		vm.KeypadButtonViewModel{Value: string(zero), Label: "0"},
		vm.KeypadButtonViewModel{Value: string(model.ButtonLock), Label: "LOCK", IsControl: true},
		vm.KeypadButtonViewModel{Value: string(model.ButtonKey), Label: "KEY", IsControl: true},
		vm.KeypadButtonViewModel{Value: string(model.ButtonPinChange), Label: "PIN", IsControl: true},
	)
	return buttons
}

func buttonLabel(b model.Button) string {
	if ch, ok := b.DigitChar(); ok {
		return string(ch)
	}
	switch b {
	case model.ButtonLock:
		return "LOCK"
	case model.ButtonKey:
		return "KEY"
	case model.ButtonPinChange:
		return "PIN"
	}
	return string(b)
}

func stateLabel(s model.LockState) string {
	return strings.ReplaceAll(string(s), "_", " ")
}
