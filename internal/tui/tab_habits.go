package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/habit"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/tui/components"
	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// habitHistoryDays is the width of the history strip.
const habitHistoryDays = 28

func (a App) renderHabitsTab(cw int) string {
	t := theme.Active
	habits := a.today.Habits
	if len(habits) == 0 {
		return components.ContentCard("Habits",
			components.EmptyState("No habits yet. Add one with `tend habit add <name>`."), cw)
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	doneStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Background(t.SurfaceBright)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	showStrip := !a.isCompactLayout()
	inner := components.CardInnerWidth(cw)

	var b strings.Builder
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %-26s %-8s %-20s %7s %6s", "Habit", "Type", "Status", "Streak", "30d")))
	if showStrip {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  Last %d days", habitHistoryDays)))
	}
	b.WriteString("\n")

	for i, hs := range habits {
		h := hs.Habit
		rate := habit.CompletionRate(h, a.today.Day, 30)

		mark, style := "○", nameStyle
		if hs.Done {
			mark, style = "●", doneStyle
		}
		cells := fmt.Sprintf("%s %-24s %-8s %-20s %7d %6s",
			mark, truncStr(h.Name, 24), habitTypeLabel(h.Type), truncStr(hs.Status, 20), hs.Streak, cli.FormatPercent(rate))

		var line string
		if i == a.habitCursor {
			line = markerStyle.Render("▸ ") + style.Background(t.SurfaceBright).Bold(true).Render(cells)
		} else {
			line = dimStyle.Render("  ") + style.Render(cells)
		}
		if showStrip {
			line += dimStyle.Render("  ") + a.historyStrip(h)
		}
		if i == a.habitCursor {
			if pad := inner - lipgloss.Width(line); pad > 0 {
				line += selStyle.Render(strings.Repeat(" ", pad))
			}
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("[space] check  [u] undo  [j/k] move"))

	if sel := habits[a.habitCursor].Habit; sel.Reminder != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("   reminder at %02d:%02d", sel.Reminder.Hour, sel.Reminder.Minute)))
	}

	return components.ContentCard(fmt.Sprintf("Habits · %d of %d complete", a.today.HabitsDone, len(habits)), b.String(), cw)
}

func habitTypeLabel(ht model.HabitType) string {
	switch ht {
	case model.WeeklyFrequency:
		return "weekly"
	case model.QuitHabit:
		return "quit"
	default:
		return "daily"
	}
}

// historyStrip draws one cell per day, oldest left. For quit habits a
// recorded day is a slip, so the colors are inverted.
func (a App) historyStrip(h model.Habit) string {
	t := theme.Active
	good := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	bad := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	none := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	for i := habitHistoryDays - 1; i >= 0; i-- {
		day := model.DayKey(a.today.Day.AddDate(0, 0, -i))
		done := habit.DoneOn(h, day)
		switch {
		case h.Type == model.QuitHabit && done:
			b.WriteString(bad.Render("█"))
		case h.Type == model.QuitHabit:
			b.WriteString(good.Render("▪"))
		case done:
			b.WriteString(good.Render("█"))
		default:
			b.WriteString(none.Render("·"))
		}
	}
	return b.String()
}
