package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	faint  = color.New(color.Faint)
)

// success prints a green line prefixed with a check mark.
func success(w io.Writer, format string, a ...any) {
	_, _ = green.Fprintf(w, "✓ "+format+"\n", a...)
}

// warning prints a yellow line.
func warning(w io.Writer, format string, a ...any) {
	_, _ = yellow.Fprintf(w, "! "+format+"\n", a...)
}

// failure prints a red line.
func failure(w io.Writer, format string, a ...any) {
	_, _ = red.Fprintf(w, "✗ "+format+"\n", a...)
}

// field prints a dimmed label followed by a value.
func field(w io.Writer, label, value string) {
	_, _ = faint.Fprintf(w, "%-6s", label)
	_, _ = fmt.Fprintln(w, value)
}
