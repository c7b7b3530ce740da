package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"Mansoor88-6/nagster-console/internal/models"
)

// Gruvbox palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header renders an uppercase section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// StatusPill colors an employee status.
func StatusPill(status string) string {
	switch status {
	case models.StatusActive:
		return StyleGreen.Render("● Active")
	case models.StatusInactive:
		return StyleDim.Render("○ Inactive")
	case "":
		return StyleDim.Render("-")
	default:
		return StyleYellow.Render("● " + status)
	}
}

// FlagBadge renders a suspicious-flag count, red when non-zero.
func FlagBadge(count int) string {
	if count == 0 {
		return Dim("0")
	}
	return StyleRed.Render(fmt.Sprintf("⚑ %d", count))
}

// ActivityStyle picks the color for an activity entry type.
func ActivityStyle(kind string) lipgloss.Style {
	switch kind {
	case models.ActivityActive:
		return StyleGreen
	case models.ActivityIdle:
		return StyleYellow
	case models.ActivitySuspicious:
		return StyleRed
	default:
		return StyleFg
	}
}

// ErrorLine renders an inline error banner.
func ErrorLine(msg string) string {
	return StyleRed.Render("✖ " + msg)
}

// SuccessLine renders an inline success banner.
func SuccessLine(msg string) string {
	return StyleGreen.Render("✔ " + msg)
}
