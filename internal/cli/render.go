package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Flexoki Dark, matching the dashboard's default theme.
var (
	colorBorder    = lipgloss.Color("#282726")
	colorTextMuted = lipgloss.Color("#6F6E69")
	colorText      = lipgloss.Color("#FFFCF0")
	colorAccent    = lipgloss.Color("#3AA99F")
	colorGreen     = lipgloss.Color("#879A39")
	colorOrange    = lipgloss.Color("#DA702C")
	colorRed       = lipgloss.Color("#D14D41")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(colorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorTextMuted)
	goodStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
	alertStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

// Separator is a row value that draws a horizontal rule across the table.
const Separator = "---"

// Table is a bordered text table for terminal output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string // a row of just Separator draws a rule
	Widths  []int      // optional minimum column widths
	// LeftAlign left-aligns every column instead of right-aligning all but
	// the first.
	LeftAlign bool
}

// RenderTitle renders a centered title in a rounded box.
func RenderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

// RenderTable draws t with rounded borders. The first column is a label;
// the rest are right-aligned unless LeftAlign is set.
func RenderTable(t Table) string {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > cols && !isSeparator(row) {
			cols = len(row)
		}
	}
	if cols == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Color.Border = text.Colors{text.FgHiBlack}
	tw.Style().Color.Separator = text.Colors{text.FgHiBlack}

	if len(t.Headers) > 0 {
		header := make(table.Row, len(t.Headers))
		for i, h := range t.Headers {
			header[i] = h
		}
		tw.AppendHeader(header)
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			tw.AppendSeparator()
			continue
		}
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	styled := func(s lipgloss.Style) text.Transformer {
		return func(v interface{}) string { return s.Render(fmt.Sprint(v)) }
	}
	configs := make([]table.ColumnConfig, cols)
	for i := range configs {
		cc := table.ColumnConfig{
			Number:            i + 1,
			Transformer:       styled(valueStyle),
			TransformerHeader: styled(headerStyle),
			AlignHeader:       text.AlignLeft,
			Align:             text.AlignRight,
		}
		if i == 0 || t.LeftAlign {
			cc.Align = text.AlignLeft
		}
		if i < len(t.Widths) {
			cc.WidthMin = t.Widths[i]
		}
		configs[i] = cc
	}
	tw.SetColumnConfigs(configs)

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	b.WriteString(tw.Render())
	b.WriteString("\n")
	return b.String()
}

// RenderProgressBar renders a text progress bar with the counts. Past the
// total the bar turns orange.
func RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := float64(current) / float64(total)
	style := goodStyle
	if pct > 1 {
		pct = 1
		style = warnStyle
	}
	filled := int(pct * float64(width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s", style.Render(bar), FormatNumber(int64(current)), FormatNumber(int64(total)))
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline scales values to block characters against the largest one.
func RenderSparkline(values []float64) string {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)])
	}
	return b.String()
}

// RenderHorizontalBar renders one labelled bar of a chart scaled to maxValue.
func RenderHorizontalBar(label string, value, maxValue float64, maxWidth int) string {
	if maxValue <= 0 {
		return "  " + label
	}
	n := min(max(int(value/maxValue*float64(maxWidth)), 0), maxWidth)
	return fmt.Sprintf("  %s %s", label, goodStyle.Render(strings.Repeat("█", n)))
}

// RenderAlert renders a one-line error or warning.
func RenderAlert(msg string) string {
	return "  " + alertStyle.Render("!") + " " + msg
}

// RenderMuted renders secondary text.
func RenderMuted(s string) string {
	return mutedStyle.Render(s)
}

// RenderKV renders aligned "label  value" lines.
func RenderKV(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	var b strings.Builder
	for _, p := range pairs {
		label := p[0] + strings.Repeat(" ", width-lipgloss.Width(p[0]))
		b.WriteString("  " + mutedStyle.Render(label) + "  " + valueStyle.Render(p[1]) + "\n")
	}
	return b.String()
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == Separator
}
