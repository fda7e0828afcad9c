package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// ApplyPrefix puts the range operator of specifier (^ or ~) in front of a
// bare version. Any other operator, or none, yields the bare version.
func ApplyPrefix(specifier, version string) string {
	if version == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(specifier, "^"):
		return "^" + version
	case strings.HasPrefix(specifier, "~"):
		return "~" + version
	default:
		return version
	}
}

// VisibleWidth is the number of terminal cells s occupies once escape
// sequences are ignored. All column math goes through it.
func VisibleWidth(s string) int {
	return ansi.StringWidth(s)
}
