package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/cycle"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/pipeline"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Summary of the day across every tracker",
	RunE:  runToday,
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func runToday(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := referenceDay()
	if err != nil {
		return err
	}
	sum := pipeline.Today(s.st, s.cfg, day)
	sym := currency(s.cfg)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TEND  %s", cli.FormatDay(sum.Day))))
	fmt.Println()

	pairs := [][2]string{
		{"Budget", fmt.Sprintf("%s  (%s)", sum.BudgetLabel, sum.Period)},
		{"Income", cli.FormatMoney(sum.Budget.Income, sym)},
		{"Expenses", cli.FormatMoney(sum.Budget.Expenses, sym)},
		{"Remaining", cli.FormatMoney(sum.Remaining, sym)},
	}
	if sum.Budget.Pending > 0 {
		pairs = append(pairs, [2]string{"Pending", fmt.Sprintf("%d variable expenses to log", sum.Budget.Pending)})
	}
	pairs = append(pairs,
		[2]string{"Habits", fmt.Sprintf("%d of %d complete", sum.HabitsDone, len(sum.Habits))},
		[2]string{"Water", fmt.Sprintf("%s / %s  %s", cli.FormatML(sum.Water.Total), cli.FormatML(sum.Water.Goal),
			cli.RenderProgressBar(sum.Water.Total, sum.Water.Goal, 20))},
		[2]string{"Sleep", sleepLine(sum.Sleep)},
		[2]string{"Cycle", cycleLine(sum.Cycle)},
		[2]string{"To-dos", fmt.Sprintf("%d open", sum.OpenTodos)},
	)
	fmt.Println(cli.RenderKV(pairs))

	if len(sum.Habits) > 0 {
		rows := make([][]string, 0, len(sum.Habits))
		for _, h := range sum.Habits {
			mark := " "
			if h.Done {
				mark = "x"
			}
			rows = append(rows, []string{"[" + mark + "] " + h.Habit.Name, h.Status, fmt.Sprintf("%d", h.Streak)})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Habits",
			Headers: []string{"Habit", "Status", "Streak"},
			Rows:    rows,
		}))
	}

	if len(sum.Meals) > 0 {
		rows := make([][]string, 0, len(sum.Meals)+2)
		for _, m := range sum.Meals {
			rows = append(rows, []string{string(m.Slot), m.MealName, fmt.Sprintf("%d", m.Servings)})
		}
		rows = append(rows, []string{cli.Separator}, []string{"Total", nutritionLine(sum.Nutrition), ""})
		fmt.Print(cli.RenderTable(cli.Table{
			Title:     "Meals",
			Headers:   []string{"Slot", "Meal", "Servings"},
			Rows:      rows,
			LeftAlign: true,
		}))
	}

	if len(sum.Agenda) > 0 {
		fmt.Println()
		fmt.Println("  Agenda")
		for _, it := range sum.Agenda {
			fmt.Printf("    %-7s %s\n", cli.FormatClock(it.Start, it.AllDay), it.Title)
		}
	}

	if len(sum.Upcoming) > 0 {
		fmt.Println()
		fmt.Println("  Upcoming payments")
		for _, o := range sum.Upcoming {
			fmt.Printf("    %-10s %-24s %s\n", cli.FormatDay(o.Due), o.Payment.Name, cli.FormatMoney(o.Payment.Amount, sym))
		}
	}
	fmt.Println()
	return nil
}

func sleepLine(d model.DailySleep) string {
	if !d.Logged {
		return cli.RenderMuted("not logged")
	}
	if d.Quality > 0 {
		return fmt.Sprintf("%s  quality %d/5", cli.FormatHours(d.Duration), d.Quality)
	}
	return cli.FormatHours(d.Duration)
}

func cycleLine(st cycle.Status) string {
	if !st.Tracked {
		return cli.RenderMuted(string(st.Phase))
	}
	line := fmt.Sprintf("Day %d  %s", st.Day, st.Phase)
	if st.DaysUntilPeriod > 0 {
		line += fmt.Sprintf("  (period in %d days)", st.DaysUntilPeriod)
	}
	return line
}

func nutritionLine(n model.Nutrition) string {
	parts := []string{
		fmt.Sprintf("%.0f kcal", n.Calories),
		fmt.Sprintf("P %.0fg", n.Protein),
		fmt.Sprintf("C %.0fg", n.Carbs),
		fmt.Sprintf("F %.0fg", n.Fat),
	}
	return strings.Join(parts, "  ")
}
