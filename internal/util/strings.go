// Package util provides small text helpers shared by the terminal UI.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// TruncateLine cuts s to maxWidth terminal columns, ending it with an
// ellipsis when anything was removed. ANSI styling and wide characters are
// measured correctly.
func TruncateLine(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// SingleLine collapses s onto one line for the status bar: line breaks and
// runs of whitespace become single spaces.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
