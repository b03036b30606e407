package components

import (
	"strings"

	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusMessage is a transient note shown in the status bar after an action.
type StatusMessage struct {
	Text  string
	Error bool
}

// RenderStatusBar renders the bottom bar: key hints on the left, an optional
// status message, and info (date, load time) on the right.
func RenderStatusBar(width int, hints, info string, msg StatusMessage) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	infoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	left := base.Render(" " + hints)
	if msg.Text != "" {
		color := t.GreenBright
		if msg.Error {
			color = t.Red
		}
		left += base.Render("  ") +
			lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true).Render(msg.Text)
	}
	right := infoStyle.Render(info + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + base.Render(strings.Repeat(" ", gap)) + right

	return lipgloss.NewStyle().Background(t.Surface).MaxWidth(width).Render(bar)
}

