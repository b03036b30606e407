package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/export"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/pipeline"
)

var (
	flagExportFormat string
	flagExportOut    string
	flagExportDays   int
	flagRestoreYes   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export transactions or back up all data",
}

var exportTxCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Export transactions as csv, markdown, html, table or xlsx",
	RunE:  runExportTransactions,
}

var exportBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write every collection to a YAML backup",
	RunE:  runExportBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup.yaml>",
	Short: "Replace all data with a YAML backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	exportTxCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "csv", "csv, markdown, html, table or xlsx")
	exportTxCmd.Flags().IntVarP(&flagExportDays, "days", "n", 0, "Only the last N days (0 for all)")
	for _, c := range []*cobra.Command{exportTxCmd, exportBackupCmd} {
		c.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file (default stdout; required for xlsx)")
	}
	restoreCmd.Flags().BoolVarP(&flagRestoreYes, "yes", "y", false, "Replace existing data without asking")

	exportCmd.AddCommand(exportTxCmd, exportBackupCmd)
	rootCmd.AddCommand(exportCmd, restoreCmd)
}

// output returns the writer for --out, or stdout.
func output() (io.Writer, func() error, error) {
	if flagExportOut == "" || flagExportOut == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(flagExportOut)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func runExportTransactions(_ *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(flagExportFormat)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	txs := s.st.Transactions()
	if flagExportDays > 0 {
		day, err := referenceDay()
		if err != nil {
			return err
		}
		txs = budget.FilterByTime(txs, day.AddDate(0, 0, -flagExportDays+1), day.AddDate(0, 0, 1))
	}

	if format == export.XLSX {
		if flagExportOut == "" || flagExportOut == "-" {
			return model.Invalid("out", "xlsx export needs a file path")
		}
		periods := budget.Aggregate(txs, pipeline.BudgetSettings(s.st, s.cfg).Period, s.cfg.WeekStartDay())
		if err := export.TransactionsXLSX(flagExportOut, txs, periods); err != nil {
			return err
		}
		info("Wrote %d transactions to %s", len(txs), flagExportOut)
		return nil
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := export.Transactions(w, txs, format); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if flagExportOut != "" {
		info("Wrote %d transactions to %s", len(txs), flagExportOut)
	}
	return nil
}

func runExportBackup(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := export.Backup(w, s.st.Snapshot(), time.Now()); err != nil {
		_ = closeFn()
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	if flagExportOut != "" {
		info("Backup written to %s", flagExportOut)
	}
	return nil
}

func runRestore(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	snap, err := export.Restore(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if !flagRestoreYes && !isEmpty(s.st.Snapshot()) {
		return model.Invalid("yes", "restore replaces all existing data; pass --yes to confirm")
	}
	if err := s.st.Replace(snap); err != nil {
		return err
	}
	fmt.Printf("  Restored %d transactions, %d habits, %d events, %d to-dos.\n",
		len(snap.Transactions), len(snap.Habits), len(snap.Events), len(snap.Todos))
	return nil
}

func isEmpty(snap model.Snapshot) bool {
	return len(snap.Transactions) == 0 && len(snap.ScheduledPayments) == 0 &&
		len(snap.Events) == 0 && len(snap.Todos) == 0 && len(snap.Habits) == 0 &&
		len(snap.MealPlan) == 0 && len(snap.CustomMeals) == 0 && snap.CycleSettings.StartDate == "" &&
		len(snap.CycleLog) == 0 && len(snap.SleepLog) == 0 && len(snap.WaterLog) == 0
}
