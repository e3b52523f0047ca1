package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: named constants for all ANSI 256 colors used in the CLI.
// Never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: class names, coordinates, paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "indexed" source status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "enriched" status.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")
)

// Semantic styles map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (class names, coordinates, paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (indexing, resolving, enriching).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (prefixes, separators, timestamps).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Source status constants.
const (
	StatusIndexed  = "indexed"
	StatusEnriched = "enriched"
	StatusShadowed = "shadowed"
	StatusFailed   = "failed"
)

// statusStyle returns the lipgloss style for a status string.
// Unknown statuses return an unstyled default.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusIndexed:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusEnriched:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusShadowed:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minSourceColumnWidth is the minimum width of the source column before the
// status suffix, so status words align.
const minSourceColumnWidth = 48

// FormatSourceLine renders an indexed source with a right-aligned,
// color-coded status suffix.
//
// Format: s:<origin>/<name>  <status>
func FormatSourceLine(origin, name, status string) string {
	path := fmt.Sprintf("%s/%s", origin, name)

	padding := minSourceColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	prefix := StyleDim.Render("s:")
	styledPath := StyleNoun.Render(path)
	styledStatus := statusStyle(status).Render(status)

	return prefix + styledPath + strings.Repeat(" ", padding) + styledStatus
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatVetCheck renders one passed check of `config vet`, with an optional
// dim detail right of the label.
func FormatVetCheck(label, detail string) string {
	line := FormatCheckmark(label)
	if detail == "" {
		return line
	}
	padding := minSourceColumnWidth - len(label)
	if padding < 2 {
		padding = 2
	}
	return line + strings.Repeat(" ", padding) + StyleDim.Render(detail)
}

// FormatVetFailure renders one failed check of `config vet`.
func FormatVetFailure(label, detail string) string {
	cross := statusStyle(StatusFailed).Render("✘")
	line := cross + " " + label
	if detail == "" {
		return line
	}
	return line + "\n    " + StyleDim.Render(detail)
}
