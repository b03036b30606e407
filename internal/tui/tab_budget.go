package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/pipeline"
	"github.com/theirongolddev/tend/internal/tui/components"
	"github.com/theirongolddev/tend/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	recentTxDays  = 30
	trendPeriods  = 12
	txListVisible = 12
)

// recentTransactions returns the last month of transactions, newest first.
func (a App) recentTransactions() []model.Transaction {
	if a.st == nil {
		return nil
	}
	until := a.today.Day.AddDate(0, 0, 1)
	txs := budget.FilterByTime(a.st.Transactions(), until.AddDate(0, 0, -recentTxDays), until)
	budget.SortByDate(txs)
	return txs
}

func txLabel(tx model.Transaction) string {
	if tx.Name != "" {
		return tx.Name
	}
	return tx.Category
}

func (a App) renderBudgetTab(cw int) string {
	t := theme.Active
	s := a.today
	sym := a.cfg.Budget.Currency
	settings := pipeline.BudgetSettings(a.st, a.cfg)

	remainingColor := t.GreenBright
	if s.Remaining.IsNegative() {
		remainingColor = t.Red
	}
	pendingNote := "all logged"
	if s.Budget.Pending > 0 {
		pendingNote = fmt.Sprintf("%d to log", s.Budget.Pending)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Income", Value: cli.FormatMoney(s.Budget.Income, sym), Note: s.BudgetLabel, Color: t.Income},
		{Label: "Expenses", Value: cli.FormatMoney(s.Budget.Expenses, sym), Note: fmt.Sprintf("%d transactions", s.Budget.Transactions), Color: t.Expense},
		{Label: "Remaining", Value: cli.FormatMoney(s.Remaining, sym), Color: remainingColor},
		{Label: "Planned", Value: cli.FormatMoney(s.Budget.Planned, sym), Note: pendingNote},
	}, cw))
	b.WriteString("\n")

	cats := budget.ByCategory(a.st.Transactions(), s.Budget.Start, s.Budget.End, settings.CategoryLimits)
	left, right := cw, cw
	if !a.isCompactLayout() {
		widths := components.LayoutRow(cw, 2)
		left, right = widths[0], widths[1]
	}
	catCard := components.ContentCard("By category", categoryBody(cats, sym, components.CardInnerWidth(left)), left)
	trendCard := components.ContentCard("Expenses by period", a.trendBody(), right)
	if a.isCompactLayout() {
		b.WriteString(catCard + "\n" + trendCard + "\n")
	} else {
		b.WriteString(components.CardRow([]string{catCard, trendCard}) + "\n")
	}

	b.WriteString(components.ContentCard(
		fmt.Sprintf("Last %d days  [a]dd  [d]elete", recentTxDays),
		a.transactionsBody(components.CardInnerWidth(cw)), cw))
	return b.String()
}

func categoryBody(cats []model.CategoryStats, sym string, width int) string {
	if len(cats) == 0 {
		return components.EmptyState("No expenses this period")
	}
	bars := make([]components.Bar, 0, len(cats))
	for _, c := range cats {
		spent, _ := c.Spent.Float64()
		text := cli.FormatMoney(c.Spent, sym)
		var color lipgloss.Color
		if c.Limit != nil {
			text += " / " + cli.FormatMoney(*c.Limit, sym)
			color = lipgloss.Color(components.ColorForLimit(c.UsedPercent() / 100))
		}
		bars = append(bars, components.Bar{Label: truncStr(c.Category, 14), Value: spent, Text: text, Color: color})
	}
	return components.HBarChart(bars, 0, width)
}

func (a App) trendBody() string {
	t := theme.Active
	settings := pipeline.BudgetSettings(a.st, a.cfg)
	periods := budget.Aggregate(a.st.Transactions(), settings.Period, a.cfg.WeekStartDay())
	if len(periods) == 0 {
		return components.EmptyState("No history yet")
	}
	if len(periods) > trendPeriods {
		periods = periods[:trendPeriods]
	}

	values := make([]float64, len(periods))
	for i, p := range periods {
		v, _ := p.Expenses.Float64()
		values[len(periods)-1-i] = v
	}
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	oldest := periods[len(periods)-1]
	return components.Sparkline(values, t.Expense) + "\n" +
		dimStyle.Render(fmt.Sprintf("since %s · %d periods", budget.PeriodLabel(oldest.Start, settings.Period), len(periods)))
}

func (a App) transactionsBody(width int) string {
	t := theme.Active
	txs := a.recentTransactions()
	if len(txs) == 0 {
		return components.EmptyState("No transactions. Press a to add one.")
	}

	sym := a.cfg.Budget.Currency
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)

	// Keep the cursor row visible.
	start := 0
	if a.txCursor >= txListVisible {
		start = a.txCursor - txListVisible + 1
	}
	end := start + txListVisible
	if end > len(txs) {
		end = len(txs)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		tx := txs[i]
		amount := cli.FormatMoney(tx.Effective(), sym)
		if tx.Type == model.Income {
			amount = "+" + amount
		}
		note := ""
		switch {
		case tx.Pending():
			note = "pending"
		case tx.ScheduledID != "":
			note = "scheduled"
		}
		line := fmt.Sprintf("%-10s  %-16s  %-22s  %12s  %-9s",
			tx.Date, truncStr(tx.Category, 16), truncStr(txLabel(tx), 22), amount, note)

		if i == a.txCursor {
			b.WriteString(selStyle.Render(padTo("▸ "+line, width)))
		} else if tx.Pending() {
			b.WriteString(dimStyle.Render("  " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if len(txs) > txListVisible {
		b.WriteString("\n" + dimStyle.Render(fmt.Sprintf("%d of %d", a.txCursor+1, len(txs))))
	}
	return b.String()
}

func padTo(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
