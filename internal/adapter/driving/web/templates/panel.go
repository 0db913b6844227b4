package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/safehub/internal/adapter/driving/web/viewmodel"
)

// SafePanel renders the full panel page for one safe: the LCD display, the
// keypad, attention signals, the audit trail, and the operator notes editor.
func SafePanel(vm viewmodel.SafePanelViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<nav class="crumbs"><a href="/">Safes</a> / %s</nav>
<h1>%s</h1>
<p class="location">%s</p>
`,
			templ.EscapeString(vm.Name),
			templ.EscapeString(vm.Name),
			templ.EscapeString(vm.Location),
		); err != nil {
			return err
		}
		if err := panelSignals(w, vm); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<section class="panel">
<div class="lcd lcd-large%s">%s</div>
<p class="state-line">%s %s</p>
`,
			lcdModifier(vm.SafeCardViewModel),
			templ.EscapeString(vm.Display),
			templ.EscapeString(vm.State),
			lockBadge(vm.Locked),
		); err != nil {
			return err
		}
		if err := keypad(w, vm); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</section>
`); err != nil {
			return err
		}
		if err := eventTable(w, vm.Events); err != nil {
			return err
		}
		return notesSection(w, vm)
	})
}

func panelSignals(w io.Writer, vm viewmodel.SafePanelViewModel) error {
	if vm.ErrorStreak == 0 && vm.FailedEntries == 0 && !vm.LeftOpen {
		return nil
	}
	if _, err := io.WriteString(w, `<div class="signals">
`); err != nil {
		return err
	}
	if vm.ErrorStreak > 0 {
		if _, err := fmt.Fprintf(w, `<span class="badge badge-error">%d error presses in a row</span>
`, vm.ErrorStreak); err != nil {
			return err
		}
	}
	if vm.FailedEntries > 0 {
		if _, err := fmt.Fprintf(w, `<span class="badge badge-warn">%d failed code entries recently</span>
`, vm.FailedEntries); err != nil {
			return err
		}
	}
	if vm.LeftOpen {
		if _, err := io.WriteString(w, `<span class="badge badge-warn">left open</span>
`); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</div>
`)
	return err
}

func keypad(w io.Writer, vm viewmodel.SafePanelViewModel) error {
	if _, err := io.WriteString(w, `<div class="keypad">
`); err != nil {
		return err
	}
	for _, b := range vm.Keypad {
		class := "key"
		if b.IsControl {
			class = "key key-control"
		}
		if _, err := fmt.Fprintf(w, `<form method="post" action="%s">
<input type="hidden" name="csrf_token" value="">
<input type="hidden" name="button" value="%s">
<button class="%s" type="submit">%s</button>
</form>
`,
			templ.EscapeString(vm.PressURL),
			templ.EscapeString(b.Value),
			class,
			templ.EscapeString(b.Label),
		); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</div>
`)
	return err
}

func eventTable(w io.Writer, events []viewmodel.EventRowViewModel) error {
	if _, err := io.WriteString(w, `<section class="events">
<h2>Recent activity</h2>
`); err != nil {
		return err
	}
	if len(events) == 0 {
		_, err := io.WriteString(w, `<p class="empty">No presses recorded yet.</p>
</section>
`)
		return err
	}
	if _, err := io.WriteString(w, `<table>
<thead><tr><th>When</th><th>Button</th><th>State</th><th>Display</th></tr></thead>
<tbody>
`); err != nil {
		return err
	}
	for _, e := range events {
		if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td class="mono">%s</td></tr>
`,
			templ.EscapeString(e.PressedAt),
			templ.EscapeString(e.ButtonLabel),
			templ.EscapeString(e.State),
			templ.EscapeString(e.Display),
		); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</tbody>
</table>
</section>
`)
	return err
}

func notesSection(w io.Writer, vm viewmodel.SafePanelViewModel) error {
	if _, err := io.WriteString(w, `<section class="notes">
<h2>Operator notes</h2>
`); err != nil {
		return err
	}
	if vm.NotesHTML != "" {
		// NotesHTML was sanitized by the markdown renderer before it
		// reached the view model.
		if _, err := fmt.Fprintf(w, `<div class="notes-rendered">%s</div>
`, vm.NotesHTML); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, `<form method="post" action="%s">
<input type="hidden" name="csrf_token" value="">
<textarea name="notes" rows="6" placeholder="Markdown supported"></textarea>
<button type="submit">Save notes</button>
</form>
</section>
`, templ.EscapeString(vm.NotesURL))
	return err
}
