// Package templates holds templ components for the SafeHub web panel.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps page content in the shared HTML shell with the navigation
// header and static asset links.
func Layout(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
<header class="topbar">
<a class="brand" href="/">SafeHub</a>
<span class="tagline">safe panel console</span>
</header>
<main class="content">
`, templ.EscapeString(title)); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main>
<script src="/static/csrf.js"></script>
</body>
</html>
`)
		return err
	})
}
