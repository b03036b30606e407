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

var (
	flagCycleStart    string
	flagCycleLength   int
	flagCyclePeriod   int
	flagCycleAhead    int
	flagLogFlow       string
	flagLogMood       string
	flagLogSymptoms   []string
	flagLogTemp       float64
	flagLogNotes      string
	flagLogDay        string
	flagCycleHistDays int
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Cycle day, phase and predictions",
	RunE:  runCycleStatus,
}

var cycleConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Set the period start date, cycle length and period duration",
	RunE:  runCycleConfig,
}

var cycleLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record flow, mood and symptoms for a day",
	RunE:  runCycleLog,
}

var cycleHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Journal entries and observed cycle lengths",
	RunE:  runCycleHistory,
}

func init() {
	cycleCmd.Flags().IntVar(&flagCycleAhead, "ahead", 60, "Days of predictions to show")

	cycleConfigCmd.Flags().StringVar(&flagCycleStart, "start", "", "First day of the most recent period (YYYY-MM-DD)")
	cycleConfigCmd.Flags().IntVar(&flagCycleLength, "length", 0, "Cycle length in days (15-60)")
	cycleConfigCmd.Flags().IntVar(&flagCyclePeriod, "period", 0, "Period duration in days (1-10)")

	cycleLogCmd.Flags().StringVar(&flagLogDay, "on", "", "Day as YYYY-MM-DD (default --date or today)")
	cycleLogCmd.Flags().StringVar(&flagLogFlow, "flow", "", "none, spotting, light, medium or heavy")
	cycleLogCmd.Flags().StringVar(&flagLogMood, "mood", "", "Mood")
	cycleLogCmd.Flags().StringSliceVar(&flagLogSymptoms, "symptom", nil, "Symptom (repeatable or comma separated)")
	cycleLogCmd.Flags().Float64Var(&flagLogTemp, "temp", 0, "Basal body temperature")
	cycleLogCmd.Flags().StringVar(&flagLogNotes, "notes", "", "Free-form notes")

	cycleHistoryCmd.Flags().IntVarP(&flagCycleHistDays, "days", "n", 30, "Show journal entries from the last N days")

	cycleCmd.AddCommand(cycleConfigCmd, cycleLogCmd, cycleHistoryCmd)
	rootCmd.AddCommand(cycleCmd)
}

func runCycleStatus(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := referenceDay()
	if err != nil {
		return err
	}
	cs := pipeline.CycleSettings(s.st.CycleSettings(), s.cfg)
	if cs.StartDate == "" {
		fmt.Println("\n  Cycle tracking is not set up.")
		fmt.Println("  Start with: tend cycle config --start 2024-01-01")
		return nil
	}

	st := cycle.Calculate(cs, day, s.cfg.Cycle.Predict)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CYCLE  %s", cli.FormatDay(day))))
	fmt.Println()

	pairs := [][2]string{
		{"Phase", string(st.Phase)},
		{"Started", cs.StartDate},
		{"Length", fmt.Sprintf("%d days, period %d days", cs.Length, cs.PeriodDuration)},
	}
	if st.Tracked {
		pairs = append(pairs,
			[2]string{"Cycle day", fmt.Sprintf("%d of %d", st.Day, cs.Length)},
			[2]string{"Next period", fmt.Sprintf("%s (in %d days)", cli.FormatDay(st.NextPeriod), st.DaysUntilPeriod)},
		)
		if from, to, ok := cycle.FertileWindow(cs, day); ok {
			pairs = append(pairs, [2]string{"Fertile window", fmt.Sprintf("%s - %s", cli.FormatDay(from), cli.FormatDay(to))})
		}
	}
	fmt.Println(cli.RenderKV(pairs))

	if st.Tracked {
		fmt.Println("  " + cli.RenderProgressBar(st.Day, cs.Length, 28))
	}

	if flagCycleAhead > 0 {
		// Collapse consecutive predicted days of the same phase into ranges.
		var lines []string
		preds := cycle.Predict(cs, day, day.AddDate(0, 0, flagCycleAhead))
		for i := 0; i < len(preds); {
			j := i + 1
			for j < len(preds) && preds[j].Phase == preds[i].Phase && !preds[j].PeriodStart &&
				model.DaysBetween(preds[j-1].Day, preds[j].Day) == 1 {
				j++
			}
			label := "Ovulation"
			if preds[i].Phase == cycle.Menstruation {
				label = "Period"
			}
			lines = append(lines, fmt.Sprintf("    %-10s %s - %s", label, cli.FormatDay(preds[i].Day), cli.FormatDay(preds[j-1].Day)))
			i = j
		}
		if len(lines) > 0 {
			fmt.Println()
			fmt.Printf("  Next %d days\n", flagCycleAhead)
			fmt.Println(strings.Join(lines, "\n"))
		}
	}
	fmt.Println()
	return nil
}

func runCycleConfig(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	cs := pipeline.CycleSettings(s.st.CycleSettings(), s.cfg)
	if cmd.Flags().Changed("start") {
		cs.StartDate = flagCycleStart
	}
	if cmd.Flags().Changed("length") {
		cs.Length = flagCycleLength
	}
	if cmd.Flags().Changed("period") {
		cs.PeriodDuration = flagCyclePeriod
	}
	if cs.StartDate == "" {
		return model.Invalid("start", "is required the first time")
	}
	if err := s.st.SetCycleSettings(cs); err != nil {
		return err
	}
	fmt.Printf("  Cycle settings saved: started %s, %d day cycle, %d day period.\n", cs.StartDate, cs.Length, cs.PeriodDuration)
	return nil
}

func runCycleLog(_ *cobra.Command, _ []string) error {
	date, err := dayArg(flagLogDay)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var symptoms []string
	for _, sym := range flagLogSymptoms {
		if sym = strings.TrimSpace(sym); sym != "" {
			symptoms = append(symptoms, sym)
		}
	}
	e, err := s.st.LogCycle(model.CycleLogEntry{
		Date:        date,
		Flow:        flagLogFlow,
		Mood:        strings.TrimSpace(flagLogMood),
		Symptoms:    symptoms,
		Temperature: flagLogTemp,
		Notes:       flagLogNotes,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Logged %s.\n", e.Date)
	return nil
}

func runCycleHistory(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	entries := s.st.CycleLog()
	if len(entries) == 0 {
		fmt.Println("\n  No journal entries yet.")
		fmt.Println("  Log one with: tend cycle log --flow medium --symptom cramps")
		return nil
	}
	sum := cycle.Summarize(entries)

	fmt.Println()
	fmt.Println(cli.RenderTitle("CYCLE HISTORY"))
	fmt.Println()

	pairs := [][2]string{
		{"Entries", fmt.Sprintf("%d", sum.Entries)},
		{"Flow days", fmt.Sprintf("%d", sum.FlowDays)},
		{"Periods logged", fmt.Sprintf("%d", len(sum.PeriodStarts))},
	}
	if len(sum.ObservedLengths) > 0 {
		lengths := make([]string, len(sum.ObservedLengths))
		for i, n := range sum.ObservedLengths {
			lengths[i] = fmt.Sprintf("%d", n)
		}
		pairs = append(pairs,
			[2]string{"Observed lengths", strings.Join(lengths, ", ")},
			[2]string{"Average length", fmt.Sprintf("%.1f days", sum.AverageLength)},
		)
	}
	fmt.Println(cli.RenderKV(pairs))

	if len(sum.TopSymptoms) > 0 {
		peak := float64(sum.TopSymptoms[0].Count)
		fmt.Println("  Top symptoms")
		for _, sc := range sum.TopSymptoms {
			fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("%-14s %3d", sc.Symptom, sc.Count), float64(sc.Count), peak, 20))
		}
		fmt.Println()
	}

	if flagCycleHistDays > 0 {
		day, err := referenceDay()
		if err != nil {
			return err
		}
		since := model.DayKey(day.AddDate(0, 0, -flagCycleHistDays+1))
		var rows [][]string
		for _, e := range entries {
			if e.Date < since {
				continue
			}
			temp := ""
			if e.Temperature > 0 {
				temp = fmt.Sprintf("%.2f", e.Temperature)
			}
			rows = append(rows, []string{e.Date, e.Flow, e.Mood, strings.Join(e.Symptoms, ", "), temp, e.Notes})
		}
		if len(rows) > 0 {
			fmt.Print(cli.RenderTable(cli.Table{
				Title:     fmt.Sprintf("Last %d days", flagCycleHistDays),
				Headers:   []string{"Date", "Flow", "Mood", "Symptoms", "Temp", "Notes"},
				Rows:      rows,
				LeftAlign: true,
			}))
		}
	}
	return nil
}
