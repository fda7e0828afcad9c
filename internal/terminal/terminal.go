// Package terminal inspects the controlling terminal.
package terminal

import (
	"os"

	"golang.org/x/term"
)

// Fallback dimensions used when the size cannot be queried.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// IsInteractive reports whether both in and out are attached to a terminal,
// which is required before raw mode can be entered.
func IsInteractive(in, out *os.File) bool {
	if in == nil || out == nil {
		return false
	}
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// Size returns the column and row count of f, or 80x24 when f is not a
// terminal or reports a degenerate size.
func Size(f *os.File) (width, height int) {
	if f == nil {
		return DefaultWidth, DefaultHeight
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}
