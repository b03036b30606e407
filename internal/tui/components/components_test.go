package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/tend/internal/tui/theme"
)

func TestTabIdxByKey(t *testing.T) {
	assert.Equal(t, 0, TabIdxByKey('t'))
	assert.Equal(t, 5, TabIdxByKey('e'))
	assert.Equal(t, len(Tabs)-1, TabIdxByKey('x'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}

func TestTabBarWidthMatchesTabs(t *testing.T) {
	theme.SetActive("flexoki-dark")
	for active := range Tabs {
		want := len(Tabs) - 1 // separators
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		bar := RenderTabBar(active, want)
		assert.Equal(t, want, lipgloss.Width(bar), "active=%d", active)
	}
}

func TestInactiveSettingsTabShowsKey(t *testing.T) {
	settings := Tabs[len(Tabs)-1]
	assert.Equal(t, len(settings.Name)+2+3, TabVisualWidth(settings, false))
	assert.Equal(t, len(settings.Name)+2, TabVisualWidth(settings, true))
}

func TestSparkline(t *testing.T) {
	assert.Empty(t, Sparkline(nil, theme.Active.Accent))

	out := Sparkline([]float64{0, 4, 8}, theme.Active.Accent)
	assert.Contains(t, out, "▁")
	assert.Contains(t, out, "█")
	assert.Equal(t, 3, lipgloss.Width(out))
}

func TestHBarChart(t *testing.T) {
	out := HBarChart([]Bar{
		{Label: "Food", Value: 50, Text: "$50"},
		{Label: "Rent", Value: 100, Text: "$100"},
		{Label: "Fun", Value: 0, Text: "$0"},
	}, 0, 60)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Greater(t, strings.Count(lines[1], "█"), strings.Count(lines[0], "█"))
	assert.Equal(t, 0, strings.Count(lines[2], "█"))
	assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(lines[1])-1, "longer value text")
}

func TestColorForLimit(t *testing.T) {
	th := theme.Active
	assert.Equal(t, string(th.Green), ColorForLimit(0.2))
	assert.Equal(t, string(th.Red), ColorForLimit(1.2))
	assert.Equal(t, string(th.Green), ColorForGoal(1))
	assert.Equal(t, string(th.Red), ColorForGoal(0.1))
}

func TestStatusBarFillsWidth(t *testing.T) {
	bar := RenderStatusBar(80, "[?]help  [q]uit", "2026-10-15", StatusMessage{Text: "Saved"})
	assert.Equal(t, 80, lipgloss.Width(bar))
}
