package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/cycle"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/tui/components"
	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderTodayTab(cw int) string {
	t := theme.Active
	s := a.today
	sym := a.cfg.Budget.Currency

	remainingColor := t.GreenBright
	if s.Remaining.IsNegative() {
		remainingColor = t.Red
	}
	waterPct := 0.0
	if s.Water.Goal > 0 {
		waterPct = float64(s.Water.Total) / float64(s.Water.Goal)
	}
	sleepValue, sleepNote := "not logged", ""
	if s.Sleep.Logged {
		sleepValue = cli.FormatHours(s.Sleep.Duration)
		if s.Sleep.Quality > 0 {
			sleepNote = fmt.Sprintf("quality %d/5", s.Sleep.Quality)
		}
	}

	metrics := []components.Metric{
		{Label: "Remaining", Value: cli.FormatMoney(s.Remaining, sym), Note: s.BudgetLabel, Color: remainingColor},
		{Label: "Habits", Value: fmt.Sprintf("%d / %d", s.HabitsDone, len(s.Habits)), Note: "complete today"},
		{Label: "Water", Value: cli.FormatML(s.Water.Total), Note: fmt.Sprintf("%s of goal", cli.FormatPercent(waterPct)),
			Color: lipgloss.Color(components.ColorForGoal(waterPct))},
		{Label: "Sleep", Value: sleepValue, Note: sleepNote, Color: t.Sleep},
		{Label: "Cycle", Value: cycleValue(s.Cycle), Note: string(s.Cycle.Phase), Color: phaseColor(s.Cycle.Phase)},
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		for _, card := range []struct{ title, body string }{
			{"Agenda", a.agendaBody()},
			{"Habits", a.habitSummaryBody()},
			{"Meals", a.mealsBody()},
			{"Upcoming payments", a.upcomingBody()},
		} {
			b.WriteString(components.ContentCard(card.title, card.body, cw))
			b.WriteString("\n")
		}
		return b.String()
	}

	widths := components.LayoutRow(cw, 2)
	agenda := components.ContentCard("Agenda", a.agendaBody(), widths[0])
	habits := components.ContentCard("Habits", a.habitSummaryBody(), widths[1])
	meals := components.ContentCard("Meals", a.mealsBody(), widths[0])
	payments := components.ContentCard("Upcoming payments", a.upcomingBody(), widths[1])

	b.WriteString(components.CardRow([]string{agenda, habits}))
	b.WriteString("\n")
	b.WriteString(components.CardRow([]string{meals, payments}))
	return b.String()
}

func cycleValue(st cycle.Status) string {
	if !st.Tracked {
		return "—"
	}
	return fmt.Sprintf("Day %d", st.Day)
}

func (a App) agendaBody() string {
	t := theme.Active
	timeStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	doneStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Strikethrough(true)

	if len(a.today.Agenda) == 0 {
		return components.EmptyState("Nothing scheduled")
	}
	lines := make([]string, 0, len(a.today.Agenda))
	for _, it := range a.today.Agenda {
		style := textStyle
		if it.Done {
			style = doneStyle
		}
		dot := lipgloss.NewStyle().Foreground(itemColor(it)).Background(t.Surface).Render("● ")
		lines = append(lines, dot+timeStyle.Render(fmt.Sprintf("%-7s ", cli.FormatClock(it.Start, it.AllDay)))+
			style.Render(truncStr(it.Title, 40)))
	}
	return strings.Join(lines, "\n")
}

// itemColor uses the item's own color when it has one, else a color per type.
func itemColor(it model.AgendaItem) lipgloss.Color {
	t := theme.Active
	if it.Color != "" && strings.HasPrefix(it.Color, "#") {
		return lipgloss.Color(it.Color)
	}
	switch it.Type {
	case model.EventMeal:
		return t.Orange
	case model.EventHabit:
		return t.Green
	case model.EventPayment:
		return t.Expense
	case model.EventCycle:
		return t.Period
	default:
		return t.Blue
	}
}

func (a App) habitSummaryBody() string {
	t := theme.Active
	doneStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	openStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.today.Habits) == 0 {
		return components.EmptyState("No habits yet")
	}
	lines := make([]string, 0, len(a.today.Habits))
	for _, h := range a.today.Habits {
		mark, style := "○ ", openStyle
		if h.Done {
			mark, style = "● ", doneStyle
		}
		lines = append(lines, style.Render(mark+truncStr(h.Habit.Name, 28))+dimStyle.Render("  "+h.Status))
	}
	return strings.Join(lines, "\n")
}

func (a App) mealsBody() string {
	t := theme.Active
	slotStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.today.Meals) == 0 {
		return components.EmptyState("No meals planned")
	}
	lines := make([]string, 0, len(a.today.Meals)+1)
	for _, m := range a.today.Meals {
		line := slotStyle.Render(fmt.Sprintf("%-10s", m.Slot)) + textStyle.Render(truncStr(m.MealName, 32))
		if m.Servings > 1 {
			line += dimStyle.Render(fmt.Sprintf(" ×%d", m.Servings))
		}
		lines = append(lines, line)
	}
	n := a.today.Nutrition
	lines = append(lines, dimStyle.Render(fmt.Sprintf("%.0f kcal · P %.0fg · C %.0fg · F %.0fg",
		n.Calories, n.Protein, n.Carbs, n.Fat)))
	return strings.Join(lines, "\n")
}

func (a App) upcomingBody() string {
	t := theme.Active
	dateStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	moneyStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	if len(a.today.Upcoming) == 0 {
		return components.EmptyState("No payments due this week")
	}
	lines := make([]string, 0, len(a.today.Upcoming))
	for _, o := range a.today.Upcoming {
		lines = append(lines, dateStyle.Render(fmt.Sprintf("%-11s", o.Due.Format("Mon Jan 2")))+
			textStyle.Render(fmt.Sprintf("%-24s", truncStr(o.Payment.Name, 24)))+
			moneyStyle.Render(cli.FormatMoney(o.Payment.Amount, a.cfg.Budget.Currency)))
	}
	return strings.Join(lines, "\n")
}
