// Package export writes budget data and full backups to files other tools
// can read.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/theirongolddev/tend/internal/model"
)

// Format is a tabular output format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	HTML     Format = "html"
	Text     Format = "table"
	XLSX     Format = "xlsx"
)

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	case "table", "text", "txt", "":
		return Text, nil
	case "xlsx", "excel":
		return XLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, markdown, html, table or xlsx)", s)
	}
}

var transactionHeader = table.Row{"Date", "Type", "Category", "Name", "Budgeted", "Actual", "Status"}

// Transactions writes txs, oldest first, in the given format. XLSX is a
// file format; use TransactionsXLSX for it.
func Transactions(w io.Writer, txs []model.Transaction, format Format) error {
	sorted := chronological(txs)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(transactionHeader)
	for _, tx := range sorted {
		t.AppendRow(transactionRow(tx))
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	switch format {
	case CSV:
		t.RenderCSV()
	case Markdown:
		t.RenderMarkdown()
	case HTML:
		t.RenderHTML()
	case Text:
		t.SetStyle(table.StyleRounded)
		t.Style().Format.Header = text.FormatDefault
		t.Render()
	default:
		return fmt.Errorf("format %q is not a text format", format)
	}
	return nil
}

func transactionRow(tx model.Transaction) table.Row {
	actual := ""
	if tx.Actual != nil {
		actual = tx.Actual.StringFixed(2)
	}
	return table.Row{
		tx.Date,
		string(tx.Type),
		tx.Category,
		tx.Name,
		tx.Amount.StringFixed(2),
		actual,
		txStatus(tx),
	}
}

// chronological returns a copy of txs ordered oldest first.
func chronological(txs []model.Transaction) []model.Transaction {
	out := append([]model.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func txStatus(tx model.Transaction) string {
	switch {
	case tx.Pending():
		return "pending"
	case tx.ScheduledID != "":
		return "scheduled"
	default:
		return "logged"
	}
}
