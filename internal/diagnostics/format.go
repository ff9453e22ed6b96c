package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Formatter renders diagnostics for a human reader, upgrading to ANSI
// highlighting only when the destination is an interactive terminal.
type Formatter struct {
	color bool
}

// NewFormatter detects terminal capability for w (falling back to plain text
// for pipes, files, and redirected output).
func NewFormatter(w io.Writer) *Formatter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Formatter{color: color}
}

// FormatHuman renders a single diagnostic as one or more lines of text.
func (f *Formatter) FormatHuman(d Diagnostic) string {
	var b strings.Builder
	code := d.Code
	if f.color {
		code = "\x1b[1;31m" + code + "\x1b[0m"
	}
	if d.Span != nil {
		fmt.Fprintf(&b, "%s: %s: %s", d.Span.String(), code, d.Message)
	} else {
		fmt.Fprintf(&b, "%s: %s", code, d.Message)
	}
	if d.Hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", d.Hint)
	}
	return b.String()
}

// FormatAll renders a sequence of diagnostics, one block per line-group.
func (f *Formatter) FormatAll(ds []Diagnostic) string {
	lines := make([]string, 0, len(ds))
	for _, d := range ds {
		lines = append(lines, f.FormatHuman(d))
	}
	return strings.Join(lines, "\n")
}
