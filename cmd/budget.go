package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/budget"
	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/pipeline"
)

var (
	flagTxName     string
	flagTxDate     string
	flagTxVariable bool
	flagTxDays     int
	flagPeriods    int
	flagSetPeriod  string
	flagSetIncome  string
	flagSetLimits  []string
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Budget summary for the current period",
	RunE:  runBudgetSummary,
}

var budgetAddCmd = &cobra.Command{
	Use:   "add <expense|income> <amount> <category>",
	Short: "Add a transaction",
	Args:  cobra.ExactArgs(3),
	RunE:  runBudgetAdd,
}

var budgetLogCmd = &cobra.Command{
	Use:   "log <id> <amount>",
	Short: "Log the actual amount of a variable expense",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetLog,
}

var budgetRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetRm,
}

var budgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, newest first",
	RunE:  runBudgetList,
}

var budgetSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change period, income and category limits",
	RunE:  runBudgetSettings,
}

func init() {
	budgetCmd.Flags().IntVar(&flagPeriods, "periods", 6, "Number of past periods in the trend")

	budgetAddCmd.Flags().StringVar(&flagTxName, "name", "", "Optional description")
	budgetAddCmd.Flags().StringVar(&flagTxDate, "on", "", "Transaction day (default --date or today)")
	budgetAddCmd.Flags().BoolVar(&flagTxVariable, "variable", false, "Amount is an estimate; log the actual later")

	budgetListCmd.Flags().IntVarP(&flagTxDays, "days", "n", 30, "Show transactions from the last N days (0 for all)")

	budgetSettingsCmd.Flags().StringVar(&flagSetPeriod, "period", "", "weekly or monthly")
	budgetSettingsCmd.Flags().StringVar(&flagSetIncome, "income", "", "Expected income per period")
	budgetSettingsCmd.Flags().StringArrayVar(&flagSetLimits, "limit", nil, "Category limit as Category=Amount (repeatable, Amount 0 removes)")

	budgetCmd.AddCommand(budgetAddCmd, budgetLogCmd, budgetRmCmd, budgetListCmd, budgetSettingsCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetSummary(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := referenceDay()
	if err != nil {
		return err
	}
	sym := currency(s.cfg)
	settings := pipeline.BudgetSettings(s.st, s.cfg)
	weekStart := s.cfg.WeekStartDay()
	txs := s.st.Transactions()

	cur := budget.Current(txs, settings.Period, weekStart, day)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s", budget.PeriodLabel(cur.Start, settings.Period))))
	fmt.Println()

	if cur.Transactions == 0 && settings.Income.IsZero() {
		fmt.Println("  No transactions in this period.")
		fmt.Println("  Add one with: tend budget add expense 12.50 Food")
		return nil
	}

	rows := [][]string{
		{"Income", cli.FormatMoney(cur.Income, sym)},
		{"Expenses", cli.FormatMoney(cur.Expenses, sym)},
		{"Net", cli.FormatMoney(cur.Net(), sym)},
		{cli.Separator},
		{"Planned", cli.FormatMoney(cur.Planned, sym)},
		{"Logged", cli.FormatMoney(cur.Logged, sym)},
		{"Pending", fmt.Sprintf("%d", cur.Pending)},
	}
	if settings.Income.IsPositive() {
		rows = append(rows, []string{cli.Separator},
			[]string{"Expected income", cli.FormatMoney(settings.Income, sym)},
			[]string{"Remaining", cli.FormatMoney(budget.Remaining(settings, cur), sym)})
	}

	// Previous period for comparison.
	prev := budget.Current(txs, settings.Period, weekStart, cur.Start.AddDate(0, 0, -1))
	if prev.Transactions > 0 {
		rows = append(rows, []string{"vs previous", cli.FormatDelta(cur.Expenses, prev.Expenses, sym)})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	cats := budget.ByCategory(txs, cur.Start, cur.End, settings.CategoryLimits)
	if len(cats) > 0 {
		catRows := make([][]string, 0, len(cats))
		for _, c := range cats {
			limit, used := "-", "-"
			if c.Limit != nil {
				limit = cli.FormatMoney(*c.Limit, sym)
				used = cli.FormatPercent(c.UsedPercent() / 100)
			}
			catRows = append(catRows, []string{
				c.Category,
				cli.FormatMoney(c.Spent, sym),
				cli.FormatPercent(c.SharePercent / 100),
				limit,
				used,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "By Category",
			Headers: []string{"Category", "Spent", "Share", "Limit", "Used"},
			Rows:    catRows,
		}))

		for _, c := range cats {
			if c.Limit != nil && c.Spent.GreaterThan(*c.Limit) {
				fmt.Println(cli.RenderAlert(fmt.Sprintf("%s is over its limit by %s",
					c.Category, cli.FormatMoney(c.Spent.Sub(*c.Limit), sym))))
			}
		}
	}

	periods := budget.Aggregate(txs, settings.Period, weekStart)
	if n := len(periods); n > 1 {
		if flagPeriods > 0 && n > flagPeriods {
			periods = periods[n-flagPeriods:]
		}
		values := make([]float64, len(periods))
		for i, p := range periods {
			values[i] = p.Expenses.InexactFloat64()
		}
		fmt.Println()
		fmt.Printf("  Expense trend  %s\n", cli.RenderSparkline(values))
	}
	fmt.Println()
	return nil
}

func runBudgetAdd(_ *cobra.Command, args []string) error {
	typ := model.TxType(strings.ToLower(args[0]))
	if !typ.Valid() {
		return model.Invalid("type", "must be expense or income, got %q", args[0])
	}
	amount, err := budget.ParseAmount("amount", args[1])
	if err != nil {
		return err
	}
	date, err := dayArg(flagTxDate)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	tx, err := s.st.AddTransaction(model.Transaction{
		Type:     typ,
		Category: args[2],
		Name:     flagTxName,
		Date:     date,
		Amount:   amount,
		Variable: flagTxVariable && typ == model.Expense,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Added %s %s %s on %s (%s)\n", tx.Type, cli.FormatMoney(tx.Amount, currency(s.cfg)), tx.Category, tx.Date, shortID(tx.ID))
	if tx.Pending() {
		fmt.Printf("  Log the actual amount later with: tend budget log %s <amount>\n", shortID(tx.ID))
	}
	return nil
}

func runBudgetLog(_ *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(args[1]))
	if err != nil {
		return model.Invalid("amount", "%q is not a number", args[1])
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	tx, err := s.st.LogActual(args[0], amount)
	if err != nil {
		return err
	}
	sym := currency(s.cfg)
	fmt.Printf("  Logged %s for %s (budgeted %s)\n", cli.FormatMoney(*tx.Actual, sym), tx.Category, cli.FormatMoney(tx.Amount, sym))
	return nil
}

func runBudgetRm(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	tx, err := s.st.Transaction(args[0])
	if err != nil {
		return err
	}
	if tx.ScheduledID != "" {
		return model.Invalid("id", "transaction belongs to a scheduled payment; use tend payments rm %s", shortID(tx.ScheduledID))
	}
	if err := s.st.DeleteTransaction(tx.ID); err != nil {
		return err
	}
	fmt.Printf("  Deleted %s %s on %s\n", tx.Category, cli.FormatMoney(tx.Amount, currency(s.cfg)), tx.Date)
	return nil
}

func runBudgetList(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := referenceDay()
	if err != nil {
		return err
	}
	txs := s.st.Transactions()
	if flagTxDays > 0 {
		txs = budget.FilterByTime(txs, day.AddDate(0, 0, -flagTxDays+1), day.AddDate(0, 0, 1))
	}
	budget.SortByDate(txs)

	if len(txs) == 0 {
		fmt.Println("\n  No transactions found.")
		return nil
	}

	sym := currency(s.cfg)
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		actual := ""
		switch {
		case tx.Actual != nil:
			actual = cli.FormatMoney(*tx.Actual, sym)
		case tx.Pending():
			actual = "pending"
		}
		rows = append(rows, []string{
			shortID(tx.ID),
			tx.Date,
			string(tx.Type),
			tx.Category,
			tx.Name,
			cli.FormatMoney(tx.Amount, sym),
			actual,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Transactions (%d)", len(txs)),
		Headers: []string{"ID", "Date", "Type", "Category", "Name", "Amount", "Actual"},
		Rows:    rows,
	}))
	return nil
}

func runBudgetSettings(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	bs := pipeline.BudgetSettings(s.st, s.cfg)
	changed := false

	if cmd.Flags().Changed("period") {
		p, err := budget.ParsePeriod(flagSetPeriod)
		if err != nil {
			return err
		}
		bs.Period = p
		changed = true
	}
	if cmd.Flags().Changed("income") {
		income, err := decimal.NewFromString(strings.TrimSpace(flagSetIncome))
		if err != nil {
			return model.Invalid("income", "%q is not a number", flagSetIncome)
		}
		bs.Income = income
		changed = true
	}
	if len(flagSetLimits) > 0 {
		limits := make(map[string]decimal.Decimal, len(bs.CategoryLimits)+len(flagSetLimits))
		for k, v := range bs.CategoryLimits {
			limits[k] = v
		}
		for _, raw := range flagSetLimits {
			cat, amt, ok := strings.Cut(raw, "=")
			cat = strings.TrimSpace(cat)
			if !ok || cat == "" {
				return model.Invalid("limit", "want Category=Amount, got %q", raw)
			}
			d, err := decimal.NewFromString(strings.TrimSpace(amt))
			if err != nil {
				return model.Invalid("limit", "%q is not a number", amt)
			}
			if d.IsZero() {
				delete(limits, cat)
				continue
			}
			limits[cat] = d
		}
		bs.CategoryLimits = limits
		changed = true
	}

	if changed {
		if err := s.st.UpdateBudgetSettings(bs); err != nil {
			return err
		}
		fmt.Println("  Budget settings saved.")
	}

	sym := currency(s.cfg)
	fmt.Println()
	fmt.Println(cli.RenderKV([][2]string{
		{"Period", string(bs.Period)},
		{"Income", cli.FormatMoney(bs.Income, sym)},
	}))
	if len(bs.CategoryLimits) > 0 {
		cats := make([]string, 0, len(bs.CategoryLimits))
		for c := range bs.CategoryLimits {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		rows := make([][]string, 0, len(cats))
		for _, c := range cats {
			rows = append(rows, []string{c, cli.FormatMoney(bs.CategoryLimits[c], sym)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Category Limits",
			Headers: []string{"Category", "Limit"},
			Rows:    rows,
		}))
	}
	return nil
}
