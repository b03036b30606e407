package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tend/internal/cycle"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/pipeline"
	"github.com/theirongolddev/tend/internal/tui/components"
	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// cycleStripDays is how many days the phase strip shows, starting today.
const cycleStripDays = 42

func phaseColor(p cycle.Phase) lipgloss.Color {
	t := theme.Active
	switch p {
	case cycle.Menstruation:
		return t.Period
	case cycle.Follicular:
		return t.Follicular
	case cycle.Ovulation:
		return t.Fertile
	case cycle.Luteal:
		return t.Luteal
	default:
		return t.TextDim
	}
}

func (a App) renderCycleTab(cw int) string {
	t := theme.Active
	st := a.today.Cycle
	if !st.Tracked {
		return components.ContentCard("Cycle", components.EmptyState(
			"Not tracked. Set a start date with `tend cycle config --start YYYY-MM-DD`."), cw)
	}

	settings := pipeline.CycleSettings(a.st.CycleSettings(), a.cfg)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	phaseStyle := lipgloss.NewStyle().Foreground(phaseColor(st.Phase)).Background(t.Surface).Bold(true)

	kv := func(label, value string) string {
		return labelStyle.Render(fmt.Sprintf("%-16s", label)) + valueStyle.Render(value) + "\n"
	}

	var status strings.Builder
	status.WriteString(phaseStyle.Render(string(st.Phase)))
	status.WriteString("\n\n")
	status.WriteString(kv("Cycle day", fmt.Sprintf("%d of %d", st.Day, settings.Length)))
	if st.DaysUntilPeriod > 0 {
		status.WriteString(kv("Next period", fmt.Sprintf("%s (in %d days)", st.NextPeriod.Format("Mon Jan 2"), st.DaysUntilPeriod)))
	}
	if from, to, ok := cycle.FertileWindow(settings, a.today.Day); ok {
		status.WriteString(kv("Fertile window", fmt.Sprintf("%s – %s", from.Format("Jan 2"), to.Format("Jan 2"))))
	}
	status.WriteString("\n")
	barW := components.CardInnerWidth(cw) - 8
	if !a.isCompactLayout() {
		barW = components.CardInnerWidth(components.LayoutRow(cw, 2)[0]) - 8
	}
	status.WriteString(components.ProgressBar(float64(st.Day)/float64(settings.Length), barW))

	// Phase strip
	var strip strings.Builder
	var dates strings.Builder
	for i := 0; i < cycleStripDays; i++ {
		d := a.today.Day.AddDate(0, 0, i)
		ds := cycle.Calculate(settings, d, true)
		cell := "▇"
		if ds.Day == 1 {
			cell = "█"
		}
		strip.WriteString(lipgloss.NewStyle().Foreground(phaseColor(ds.Phase)).Background(t.Surface).Render(cell))
		if i%7 == 0 {
			dates.WriteString(dimStyle.Render(fmt.Sprintf("%-7s", d.Format("Jan 2"))))
		}
	}
	var legend []string
	for _, p := range []cycle.Phase{cycle.Menstruation, cycle.Follicular, cycle.Ovulation, cycle.Luteal} {
		legend = append(legend, lipgloss.NewStyle().Foreground(phaseColor(p)).Background(t.Surface).Render("■ ")+
			dimStyle.Render(shortPhase(p)))
	}
	stripBody := strip.String() + "\n" + dates.String() + "\n\n" + strings.Join(legend, dimStyle.Render("  "))

	historyBody := a.cycleHistoryBody()

	if a.isCompactLayout() {
		return components.ContentCard("Cycle", status.String(), cw) + "\n" +
			components.ContentCard(fmt.Sprintf("Next %d days", cycleStripDays), stripBody, cw) + "\n" +
			components.ContentCard("Journal", historyBody, cw)
	}
	widths := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard("Cycle", status.String(), widths[0]),
		components.ContentCard("Journal", historyBody, widths[1]),
	}) + "\n" + components.ContentCard(fmt.Sprintf("Next %d days", cycleStripDays), stripBody, cw)
}

func shortPhase(p cycle.Phase) string {
	switch p {
	case cycle.Ovulation:
		return "Ovulation"
	case cycle.Follicular:
		return "Follicular"
	case cycle.Luteal:
		return "Luteal"
	default:
		return string(p)
	}
}

func (a App) cycleHistoryBody() string {
	t := theme.Active
	entries := a.st.CycleLog()
	if len(entries) == 0 {
		return components.EmptyState("No journal entries. Log with `tend cycle log`.")
	}
	sum := cycle.Summarize(entries)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := []string{
		labelStyle.Render("Entries         ") + valueStyle.Render(fmt.Sprintf("%d (%d flow days)", sum.Entries, sum.FlowDays)),
		labelStyle.Render("Periods logged  ") + valueStyle.Render(fmt.Sprintf("%d", len(sum.PeriodStarts))),
	}
	if sum.AverageLength > 0 {
		lines = append(lines, labelStyle.Render("Average length  ")+valueStyle.Render(fmt.Sprintf("%.1f days", sum.AverageLength)))
	}
	if len(sum.TopSymptoms) > 0 {
		n := len(sum.TopSymptoms)
		if n > 3 {
			n = 3
		}
		names := make([]string, n)
		for i := 0; i < n; i++ {
			names[i] = fmt.Sprintf("%s (%d)", sum.TopSymptoms[i].Symptom, sum.TopSymptoms[i].Count)
		}
		lines = append(lines, labelStyle.Render("Top symptoms    ")+valueStyle.Render(strings.Join(names, ", ")))
	}

	last := entries[len(entries)-1]
	for _, e := range entries {
		if e.Date > last.Date {
			last = e
		}
	}
	lines = append(lines, labelStyle.Render("Last entry      ")+valueStyle.Render(lastEntryLine(last)))
	return strings.Join(lines, "\n")
}

func lastEntryLine(e model.CycleLogEntry) string {
	parts := []string{e.Date}
	if e.Flow != "" {
		parts = append(parts, "flow "+e.Flow)
	}
	if e.Mood != "" {
		parts = append(parts, e.Mood)
	}
	return strings.Join(parts, " · ")
}
