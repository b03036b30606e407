package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/tend/internal/model"
)

const (
	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

// TransactionsXLSX writes a workbook with every transaction on one sheet and
// per-period totals on another.
func TransactionsXLSX(path string, txs []model.Transaction, periods []model.PeriodStats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	sorted := chronological(txs)

	rows := [][]any{{"Date", "Type", "Category", "Name", "Budgeted", "Actual", "Status"}}
	for _, tx := range sorted {
		var actual any = ""
		if tx.Actual != nil {
			actual = tx.Actual.InexactFloat64()
		}
		rows = append(rows, []any{
			tx.Date, string(tx.Type), tx.Category, tx.Name,
			tx.Amount.InexactFloat64(), actual, txStatus(tx),
		})
	}
	if err := writeRows(f, transactionsSheet, rows, bold); err != nil {
		return err
	}

	rows = [][]any{{"Period", "Income", "Expenses", "Net", "Planned", "Pending", "Transactions"}}
	for _, ps := range periods {
		rows = append(rows, []any{
			ps.Key,
			ps.Income.InexactFloat64(),
			ps.Expenses.InexactFloat64(),
			ps.Net().InexactFloat64(),
			ps.Planned.InexactFloat64(),
			ps.Pending,
			ps.Transactions,
		})
	}
	if err := writeRows(f, summarySheet, rows, bold); err != nil {
		return err
	}

	if err := f.SetColWidth(transactionsSheet, "A", "G", 14); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "G", 14); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
