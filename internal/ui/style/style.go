// Package style holds the colours and icons shared by the log handler and CLI output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Ember  = lipgloss.Color("#E4572E")
	Ash    = lipgloss.Color("#6B7280")
	Steel  = lipgloss.Color("#94A3B8")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

