package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/pipeline"
	"github.com/theirongolddev/tend/internal/tui/components"
	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// healthDays is the window of the water and sleep history.
const healthDays = 14

func (a App) renderHealthTab(cw int) string {
	left, right := cw, cw
	if !a.isCompactLayout() {
		widths := components.LayoutRow(cw, 2)
		left, right = widths[0], widths[1]
	}
	water := components.ContentCard("Water  [w] +glass  [W] undo", a.waterBody(components.CardInnerWidth(left)), left)
	sleep := components.ContentCard("Sleep", a.sleepBody(), right)

	var b strings.Builder
	if a.isCompactLayout() {
		b.WriteString(water + "\n" + sleep + "\n")
	} else {
		b.WriteString(components.CardRow([]string{water, sleep}) + "\n")
	}
	b.WriteString(components.ContentCard("Profile", a.profileBody(), cw))
	return b.String()
}

// healthWindow returns the inclusive day range of the history.
func (a App) healthWindow() (time.Time, time.Time) {
	return a.today.Day.AddDate(0, 0, -healthDays+1), a.today.Day
}

func (a App) waterBody(width int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	today := a.today.Water
	pct := 0.0
	if today.Goal > 0 {
		pct = float64(today.Total) / float64(today.Goal)
	}

	var b strings.Builder
	b.WriteString(components.GoalBar("Today", pct,
		fmt.Sprintf("%s / %s", cli.FormatML(today.Total), cli.FormatML(today.Goal)),
		components.ColorForGoal(pct), 6, width-26))
	b.WriteString("\n")

	since, until := a.healthWindow()
	days := pipeline.AggregateWater(a.st.WaterLog(), since, until, a.cfg.Water.DailyGoalML)
	streak := pipeline.WaterStreak(days)
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d drinks today · goal met %d days running", today.Drinks, streak)))
	b.WriteString("\n\n")

	bars := make([]components.Bar, 0, len(days))
	for _, d := range days {
		p := 0.0
		if d.Goal > 0 {
			p = float64(d.Total) / float64(d.Goal)
		}
		bars = append(bars, components.Bar{
			Label: d.Date.Format("Mon 02"),
			Value: float64(d.Total),
			Text:  cli.FormatML(d.Total),
			Color: lipgloss.Color(components.ColorForGoal(p)),
		})
	}
	b.WriteString(components.HBarChart(bars, float64(a.cfg.Water.DailyGoalML), width))
	return b.String()
}

func (a App) sleepBody() string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	since, until := a.healthWindow()
	days := pipeline.AggregateSleep(a.st.SleepLog(), since, until)
	target := time.Duration(a.cfg.Sleep.TargetHours * float64(time.Hour))
	sum := pipeline.SummarizeSleep(days, target)
	if sum.Nights == 0 {
		return components.EmptyState(fmt.Sprintf("No sleep logged in the last %d days. Try `tend sleep log 23:00 07:00`.", healthDays))
	}

	// Rows arrive newest first; the sparkline reads left to right.
	hours := make([]float64, len(days))
	for i, d := range days {
		hours[len(days)-1-i] = d.Duration.Hours()
	}

	kv := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-16s", label)) + valueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(components.Sparkline(hours, t.Sleep))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  last %d nights", healthDays)))
	b.WriteString("\n\n")
	b.WriteString(kv("Last night", sleepLineTUI(a.today.Sleep.Logged, a.today.Sleep.Duration, a.today.Sleep.Quality)))
	b.WriteString(kv("Average", cli.FormatHours(sum.AvgDuration)))
	if sum.AvgQuality > 0 {
		b.WriteString(kv("Avg quality", fmt.Sprintf("%.1f / 5", sum.AvgQuality)))
	}
	b.WriteString(kv("On target", fmt.Sprintf("%d of %d nights (%.1f h)", sum.NightsOnGoal, sum.Nights, a.cfg.Sleep.TargetHours)))
	b.WriteString(kv("Range", fmt.Sprintf("%s – %s", cli.FormatHours(sum.Shortest), cli.FormatHours(sum.Longest))))
	return strings.TrimRight(b.String(), "\n")
}

func sleepLineTUI(logged bool, d time.Duration, quality int) string {
	if !logged {
		return "not logged"
	}
	if quality > 0 {
		return fmt.Sprintf("%s · quality %d/5", cli.FormatHours(d), quality)
	}
	return cli.FormatHours(d)
}

func (a App) profileBody() string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	p := a.st.Profile()
	if p.Name == "" && p.HeightCm == 0 && p.WeightKg == 0 {
		return components.EmptyState("Set up your profile with `tend profile set`.")
	}

	var parts []string
	if p.Name != "" {
		parts = append(parts, labelStyle.Render("Name ")+valueStyle.Render(p.Name))
	}
	if p.HeightCm > 0 {
		parts = append(parts, labelStyle.Render("Height ")+valueStyle.Render(fmt.Sprintf("%.0f cm", p.HeightCm)))
	}
	if p.WeightKg > 0 {
		parts = append(parts, labelStyle.Render("Weight ")+valueStyle.Render(fmt.Sprintf("%.1f kg", p.WeightKg)))
	}
	if bmi := p.BMI(); bmi > 0 {
		parts = append(parts, labelStyle.Render("BMI ")+valueStyle.Render(fmt.Sprintf("%.1f", bmi)))
	}
	line := strings.Join(parts, labelStyle.Render("   "))
	if len(p.Goals) > 0 {
		line += "\n" + labelStyle.Render("Goals ") + valueStyle.Render(strings.Join(p.Goals, ", "))
	}
	return line
}
