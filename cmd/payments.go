package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/model"
)

var (
	flagPayMonthly  bool
	flagPayCategory string
	flagPayIncome   bool
	flagPayDays     int
)

var paymentsCmd = &cobra.Command{
	Use:     "payments",
	Aliases: []string{"pay"},
	Short:   "List scheduled payments",
	RunE:    runPaymentsList,
}

var paymentsAddCmd = &cobra.Command{
	Use:   "add <name> <amount> <YYYY-MM-DD>",
	Short: "Schedule a payment (creates a transaction and a calendar event)",
	Args:  cobra.ExactArgs(3),
	RunE:  runPaymentsAdd,
}

var paymentsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a scheduled payment and its derived records",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaymentsRm,
}

var paymentsUpcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Projected due dates, monthly repeats included",
	RunE:  runPaymentsUpcoming,
}

func init() {
	paymentsAddCmd.Flags().BoolVar(&flagPayMonthly, "monthly", false, "Repeat on the same day every month")
	paymentsAddCmd.Flags().StringVar(&flagPayCategory, "category", "Bills", "Budget category")
	paymentsAddCmd.Flags().BoolVar(&flagPayIncome, "income", false, "Record as income instead of an expense")

	paymentsUpcomingCmd.Flags().IntVarP(&flagPayDays, "days", "n", 30, "Look ahead N days")

	paymentsCmd.AddCommand(paymentsAddCmd, paymentsRmCmd, paymentsUpcomingCmd)
	rootCmd.AddCommand(paymentsCmd)
}

func runPaymentsList(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	payments := s.st.ScheduledPayments()
	if len(payments) == 0 {
		fmt.Println("\n  No scheduled payments.")
		fmt.Println("  Add one with: tend payments add Rent 1200 2024-02-01 --monthly")
		return nil
	}

	sym := currency(s.cfg)
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			shortID(p.ID),
			p.Name,
			cli.FormatMoney(p.Amount, sym),
			p.Date,
			string(p.Frequency),
			p.Category,
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     "Scheduled Payments",
		Headers:   []string{"ID", "Name", "Amount", "First Due", "Repeats", "Category"},
		Rows:      rows,
		LeftAlign: true,
	}))
	return nil
}

func runPaymentsAdd(_ *cobra.Command, args []string) error {
	amount, err := budget.ParseAmount("amount", args[1])
	if err != nil {
		return err
	}
	freq := model.OneTime
	if flagPayMonthly {
		freq = model.MonthlyRepeat
	}
	typ := model.Expense
	if flagPayIncome {
		typ = model.Income
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	sp, err := s.st.AddScheduledPayment(model.ScheduledPayment{
		Name:      strings.TrimSpace(args[0]),
		Amount:    amount,
		Date:      args[2],
		Category:  flagPayCategory,
		Type:      typ,
		Frequency: freq,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Scheduled %s %s on %s (%s, %s)\n", sp.Name, cli.FormatMoney(sp.Amount, currency(s.cfg)), sp.Date, sp.Frequency, shortID(sp.ID))
	return nil
}

func runPaymentsRm(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.st.DeleteScheduledPayment(args[0]); err != nil {
		return err
	}
	fmt.Println("  Payment deleted along with its transaction and calendar event.")
	return nil
}

func runPaymentsUpcoming(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := referenceDay()
	if err != nil {
		return err
	}
	if flagPayDays < 1 {
		return model.Invalid("days", "must be at least 1")
	}
	occ := budget.Upcoming(s.st.ScheduledPayments(), day, day.AddDate(0, 0, flagPayDays))
	if len(occ) == 0 {
		fmt.Printf("\n  Nothing due in the next %d days.\n", flagPayDays)
		return nil
	}

	sym := currency(s.cfg)
	var rows [][]string
	total := decimal.Zero
	for _, o := range occ {
		rows = append(rows, []string{
			cli.FormatDay(o.Due),
			fmt.Sprintf("%d", model.DaysBetween(day, o.Due)),
			o.Payment.Name,
			cli.FormatMoney(o.Payment.Amount, sym),
		})
		if o.Payment.Type != model.Income {
			total = total.Add(o.Payment.Amount)
		}
	}
	rows = append(rows, []string{cli.Separator}, []string{"Total due", "", "", cli.FormatMoney(total, sym)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Due in the next %d days", flagPayDays),
		Headers: []string{"Due", "In days", "Payment", "Amount"},
		Rows:    rows,
	}))
	return nil
}
