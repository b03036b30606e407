package components

import (
	"strings"

	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values, scaled to the largest.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// Bar is one row of a HBarChart.
type Bar struct {
	Label string
	Value float64
	Text  string // shown after the bar
	Color lipgloss.Color
}

// HBarChart renders one horizontal bar per row, scaled to the largest value
// (or to scale when it is larger).
func HBarChart(bars []Bar, scale float64, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	for _, b := range bars {
		if w := lipgloss.Width(b.Label); w > labelW {
			labelW = w
		}
		if b.Value > scale {
			scale = b.Value
		}
	}
	if scale <= 0 {
		scale = 1
	}
	barW := width - labelW - 14
	if barW < 5 {
		barW = 5
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		color := b.Color
		if color == "" {
			color = t.Accent
		}
		n := int(b.Value / scale * float64(barW))
		if n < 0 {
			n = 0
		}
		if b.Value > 0 && n == 0 {
			n = 1
		}
		filled := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", n))
		lines[i] = labelStyle.Render(b.Label+strings.Repeat(" ", labelW-lipgloss.Width(b.Label))) +
			space.Render(" ") + filled + space.Render(strings.Repeat(" ", barW-n+1)) +
			textStyle.Render(b.Text)
	}
	return strings.Join(lines, "\n")
}
