package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/pipeline"
)

var (
	flagHealthDays   int
	flagSleepQuality int
	flagSleepNotes   string
	flagHealthOn     string
	flagWaterML      int
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Sleep duration and quality over recent nights",
	RunE:  runSleepSummary,
}

var sleepLogCmd = &cobra.Command{
	Use:   "log <bedtime HH:MM> <wake HH:MM>",
	Short: "Log a night of sleep (keyed by the day you woke up)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSleepLog,
}

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Hydration against the daily goal",
	RunE:  runWaterSummary,
}

var waterAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a drink (one glass by default)",
	RunE:  runWaterAdd,
}

var waterUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the last drink logged today",
	RunE:  runWaterUndo,
}

func init() {
	for _, c := range []*cobra.Command{sleepCmd, waterCmd} {
		c.Flags().IntVarP(&flagHealthDays, "days", "n", 0, "Days to summarize (default from config)")
	}

	sleepLogCmd.Flags().IntVar(&flagSleepQuality, "quality", 0, "Quality from 1 to 5")
	sleepLogCmd.Flags().StringVar(&flagSleepNotes, "notes", "", "Free-form notes")
	sleepLogCmd.Flags().StringVar(&flagHealthOn, "on", "", "Wake-up day as YYYY-MM-DD (default --date or today)")

	waterAddCmd.Flags().IntVar(&flagWaterML, "ml", 0, "Amount in millilitres (default one glass from config)")
	for _, c := range []*cobra.Command{waterAddCmd, waterUndoCmd} {
		c.Flags().StringVar(&flagHealthOn, "on", "", "Day as YYYY-MM-DD (default --date or today)")
	}

	sleepCmd.AddCommand(sleepLogCmd)
	waterCmd.AddCommand(waterAddCmd, waterUndoCmd)
	rootCmd.AddCommand(sleepCmd, waterCmd)
}

// healthWindow returns [since, until] for the summaries, newest day last.
func healthWindow(s *session) (time.Time, time.Time, int, error) {
	until, err := referenceDay()
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	days := flagHealthDays
	if days <= 0 {
		days = s.cfg.General.DefaultDays
	}
	return until.AddDate(0, 0, -days+1), until, days, nil
}

func runSleepSummary(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	since, until, days, err := healthWindow(s)
	if err != nil {
		return err
	}
	nights := pipeline.AggregateSleep(s.st.SleepLog(), since, until)
	target := time.Duration(s.cfg.Sleep.TargetHours * float64(time.Hour))
	sum := pipeline.SummarizeSleep(nights, target)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SLEEP  Last %dd", days)))
	fmt.Println()

	if sum.Nights == 0 {
		fmt.Println("  No sleep logged in this window.")
		fmt.Println("  Log a night with: tend sleep log 23:15 07:00 --quality 4")
		return nil
	}

	fmt.Println(cli.RenderKV([][2]string{
		{"Nights logged", fmt.Sprintf("%d of %d", sum.Nights, days)},
		{"Average", cli.FormatHours(sum.AvgDuration)},
		{"Target", cli.FormatHours(target)},
		{"On target", fmt.Sprintf("%d nights", sum.NightsOnGoal)},
		{"Shortest", cli.FormatHours(sum.Shortest)},
		{"Longest", cli.FormatHours(sum.Longest)},
		{"Avg quality", fmt.Sprintf("%.1f / 5", sum.AvgQuality)},
	}))

	// Oldest night first so the sparkline reads left to right.
	values := make([]float64, len(nights))
	for i, n := range nights {
		values[len(nights)-1-i] = n.Duration.Hours()
	}
	fmt.Printf("  Trend  %s\n\n", cli.RenderSparkline(values))

	rows := make([][]string, 0, len(nights))
	for _, n := range nights {
		if !n.Logged {
			continue
		}
		quality := ""
		if n.Quality > 0 {
			quality = fmt.Sprintf("%d", n.Quality)
		}
		rows = append(rows, []string{cli.FormatDay(n.Date), cli.FormatHours(n.Duration), quality})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Night", "Slept", "Quality"},
		Rows:    rows,
	}))
	return nil
}

func runSleepLog(_ *cobra.Command, args []string) error {
	date, err := dayArg(flagHealthOn)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.st.LogSleep(model.SleepEntry{
		Date:     date,
		Bedtime:  args[0],
		WakeTime: args[1],
		Quality:  flagSleepQuality,
		Notes:    flagSleepNotes,
	})
	if err != nil {
		return err
	}
	d, _ := e.Duration()
	fmt.Printf("  Logged %s of sleep for %s.\n", cli.FormatHours(d), e.Date)
	return nil
}

func runWaterSummary(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	since, until, days, err := healthWindow(s)
	if err != nil {
		return err
	}
	daily := pipeline.AggregateWater(s.st.WaterLog(), since, until, s.cfg.Water.DailyGoalML)
	today := daily[0]

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WATER  Last %dd", days)))
	fmt.Println()
	fmt.Println(cli.RenderKV([][2]string{
		{"Today", fmt.Sprintf("%s of %s (%d drinks)", cli.FormatML(today.Total), cli.FormatML(today.Goal), today.Drinks)},
		{"Progress", cli.RenderProgressBar(today.Total, today.Goal, 24)},
		{"Goal streak", fmt.Sprintf("%d days", pipeline.WaterStreak(daily))},
	}))

	peak := float64(today.Goal)
	for _, d := range daily {
		if float64(d.Total) > peak {
			peak = float64(d.Total)
		}
	}
	for _, d := range daily {
		label := fmt.Sprintf("%-10s %8s", cli.FormatDay(d.Date), cli.FormatML(d.Total))
		fmt.Println(cli.RenderHorizontalBar(label, float64(d.Total), peak, 30))
	}
	fmt.Println()
	return nil
}

func runWaterAdd(_ *cobra.Command, _ []string) error {
	date, err := dayArg(flagHealthOn)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ml := flagWaterML
	if ml == 0 {
		ml = s.cfg.Water.GlassML
	}
	if _, err := s.st.AddWater(date, ml); err != nil {
		return err
	}
	printWaterTotal(s, date, fmt.Sprintf("+%s", cli.FormatML(ml)))
	return nil
}

func runWaterUndo(_ *cobra.Command, _ []string) error {
	date, err := dayArg(flagHealthOn)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	e, ok, err := s.st.UndoWater(date)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("  Nothing logged on %s.\n", date)
		return nil
	}
	printWaterTotal(s, date, fmt.Sprintf("-%s", cli.FormatML(e.Amount)))
	return nil
}

func printWaterTotal(s *session, date, change string) {
	day, _ := model.ParseDay(date)
	d := pipeline.AggregateWater(s.st.WaterLog(), day, day, s.cfg.Water.DailyGoalML)[0]
	fmt.Printf("  %s  %s  %s\n", change, date, cli.RenderProgressBar(d.Total, d.Goal, 20))
}
