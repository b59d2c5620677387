package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette used by the CLI commands.
var (
	ColorPrimary = lipgloss.Color("39")  // Bright blue
	ColorSuccess = lipgloss.Color("82")  // Green
	ColorError   = lipgloss.Color("196") // Red
	ColorInfo    = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
	ColorMuted  = lipgloss.Color("238") // Dark gray
)

var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	SubheaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	KeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1)

	ActiveIndicator = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Render("●")

	InactiveIndicator = lipgloss.NewStyle().
				Foreground(ColorError).
				Render("○")
)

// OutputInfo is one display row printed by `yarrbar outputs`.
type OutputInfo struct {
	Name   string
	Width  int32
	Height int32
	Scale  int32
}

// FormatOutputs renders the outputs announced by the compositor.
func FormatOutputs(outputs []OutputInfo) string {
	var b strings.Builder

	b.WriteString(SubheaderStyle.Render(fmt.Sprintf("Detected %d output(s):", len(outputs))))
	b.WriteString("\n")
	if len(outputs) == 0 {
		b.WriteString(MutedStyle.Render("No outputs"))
		return BoxStyle.Render(b.String())
	}

	for i, o := range outputs {
		b.WriteString("\n")
		name := o.Name
		if name == "" {
			name = fmt.Sprintf("output-%d", i)
		}
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, BoldStyle.Render(name)))
		b.WriteString(fmt.Sprintf("   %s %s",
			TextStyle.Render(fmt.Sprintf("%dx%d", o.Width, o.Height)),
			SubtleStyle.Render(fmt.Sprintf("scale %d", o.Scale))))
	}
	return BoxStyle.Render(b.String())
}

// FormatSetting renders a `key = value` line of the effective config.
func FormatSetting(key string, value any) string {
	return "  " + KeyStyle.Render(key) + " = " + TextStyle.Render(fmt.Sprint(value))
}

// FormatSection renders a config section header.
func FormatSection(name string) string {
	return InfoStyle.Render("[" + name + "]")
}

// FormatStatus prefixes status with an active or inactive indicator.
func FormatStatus(active bool, status string) string {
	indicator := InactiveIndicator
	if active {
		indicator = ActiveIndicator
	}
	return indicator + " " + status
}
