// Package ui renders terminal styling for fid's text output.
package ui

import "fmt"

// ANSI256 color codes.
const (
	colorHeader  = 74  // blue
	colorWarning = 214 // amber
	colorOK      = 71  // green
	colorMuted   = 245 // medium gray
)

var noColor = !ShouldUseColor()

func paint(color int, s string) string {
	if noColor || s == "" {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// RenderHeader styles a table header or section title.
func RenderHeader(s string) string { return paint(colorHeader, s) }

// RenderWarning styles a validation finding.
func RenderWarning(s string) string { return paint(colorWarning, s) }

// RenderOK styles a clean result.
func RenderOK(s string) string { return paint(colorOK, s) }

// RenderMuted styles secondary detail such as sample values.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// SetColor enables or disables color output globally.
func SetColor(enabled bool) {
	noColor = !enabled
}
