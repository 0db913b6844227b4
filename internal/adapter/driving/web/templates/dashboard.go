package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/safehub/internal/adapter/driving/web/viewmodel"
)

// Dashboard renders the safe overview grid.
func Dashboard(safes []viewmodel.SafeCardViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Safes</h1>
`); err != nil {
			return err
		}
		if len(safes) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No safes registered. Use the API to add one.</p>
`)
			return err
		}
		if _, err := io.WriteString(w, `<div class="safe-grid">
`); err != nil {
			return err
		}
		for _, s := range safes {
			if err := safeCard(w, s); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>
`)
		return err
	})
}

func safeCard(w io.Writer, s viewmodel.SafeCardViewModel) error {
	_, err := fmt.Fprintf(w, `<a class="safe-card severity-%d" href="%s">
<h2>%s</h2>
<p class="location">%s</p>
<div class="lcd%s">%s</div>
%s
</a>
`,
		s.Severity,
		templ.EscapeString(s.DetailPath),
		templ.EscapeString(s.Name),
		templ.EscapeString(s.Location),
		lcdModifier(s),
		templ.EscapeString(s.Display),
		lockBadge(s.Locked),
	)
	return err
}

func lcdModifier(s viewmodel.SafeCardViewModel) string {
	if s.IsError {
		return " lcd-error"
	}
	if !s.Locked {
		return " lcd-open"
	}
	return ""
}

func lockBadge(locked bool) string {
	if locked {
		return `<span class="badge badge-locked">locked</span>`
	}
	return `<span class="badge badge-open">unlocked</span>`
}
