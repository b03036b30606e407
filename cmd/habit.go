package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/habit"
	"github.com/theirongolddev/tend/internal/model"
)

var (
	flagHabitType   string
	flagHabitTarget int
	flagHabitRemind string
	flagHabitDay    string
	flagHabitDays   int
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"habits"},
	Short:   "Habit progress and streaks",
	RunE:    runHabitList,
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Track a new habit",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitAdd,
}

var habitCheckCmd = &cobra.Command{
	Use:   "check <habit>",
	Short: "Mark a habit done (or record a slip on a quit habit)",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitCheck,
}

var habitUndoCmd = &cobra.Command{
	Use:   "undo <habit>",
	Short: "Undo one completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitUndo,
}

var habitRmCmd = &cobra.Command{
	Use:   "rm <habit>",
	Short: "Stop tracking a habit",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabitRm,
}

var habitRemindCmd = &cobra.Command{
	Use:   "remind <habit> <HH:MM|off>",
	Short: "Set or clear a daily reminder",
	Args:  cobra.ExactArgs(2),
	RunE:  runHabitRemind,
}

func init() {
	habitCmd.Flags().IntVarP(&flagHabitDays, "days", "n", 14, "Days in the history strip")

	habitAddCmd.Flags().StringVar(&flagHabitType, "type", "daily", "daily, weekly or quit")
	habitAddCmd.Flags().IntVar(&flagHabitTarget, "target", 3, "Completions per week (weekly habits)")
	habitAddCmd.Flags().StringVar(&flagHabitRemind, "remind", "", "Daily reminder time as HH:MM")

	for _, c := range []*cobra.Command{habitCheckCmd, habitUndoCmd} {
		c.Flags().StringVar(&flagHabitDay, "on", "", "Day as YYYY-MM-DD (default --date or today)")
	}

	habitCmd.AddCommand(habitAddCmd, habitCheckCmd, habitUndoCmd, habitRmCmd, habitRemindCmd)
	rootCmd.AddCommand(habitCmd)
}

func runHabitList(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	day, err := referenceDay()
	if err != nil {
		return err
	}
	habits := s.st.Habits()
	if len(habits) == 0 {
		fmt.Println("\n  No habits yet.")
		fmt.Println("  Add one with: tend habit add \"Drink water\"")
		return nil
	}

	days := flagHabitDays
	if days < 1 {
		days = 1
	}
	weekStart := s.cfg.WeekStartDay()

	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, []string{
			h.Name,
			typeLabel(h),
			habit.Status(h, day, weekStart),
			fmt.Sprintf("%d", habit.Streak(h, day)),
			cli.FormatPercent(habit.CompletionRate(h, day, days)),
			historyStrip(h, day, days),
			reminderLabel(h.Reminder),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("HABITS  %s", cli.FormatDay(day))))
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   []string{"Habit", "Type", "Status", "Streak", fmt.Sprintf("%dd rate", days), "History", "Reminder"},
		Rows:      rows,
		LeftAlign: true,
	}))
	return nil
}

func runHabitAdd(_ *cobra.Command, args []string) error {
	typ, err := habit.ParseType(flagHabitType)
	if err != nil {
		return err
	}
	h := model.Habit{Name: args[0], Type: typ}
	if typ == model.WeeklyFrequency {
		h.TargetPerWeek = flagHabitTarget
	}
	if flagHabitRemind != "" {
		r, err := habit.ParseReminder(flagHabitRemind)
		if err != nil {
			return err
		}
		h.Reminder = r
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err = s.st.AddHabit(h)
	if err != nil {
		return err
	}
	fmt.Printf("  Tracking %q (%s)\n", h.Name, typeLabel(h))
	return nil
}

func runHabitCheck(_ *cobra.Command, args []string) error {
	return updateHabit(args[0], true)
}

func runHabitUndo(_ *cobra.Command, args []string) error {
	return updateHabit(args[0], false)
}

func updateHabit(ref string, record bool) error {
	key, err := dayArg(flagHabitDay)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	var h model.Habit
	if record {
		h, err = s.st.RecordHabit(ref, key)
	} else {
		h, err = s.st.DecrementHabit(ref, key)
	}
	if err != nil {
		return err
	}
	day, _ := model.ParseDay(key)
	fmt.Printf("  %s: %s (streak %d)\n", h.Name, habit.Status(h, day, s.cfg.WeekStartDay()), habit.Streak(h, day))
	return nil
}

func runHabitRm(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.st.DeleteHabit(args[0]); err != nil {
		return err
	}
	fmt.Println("  Habit deleted.")
	return nil
}

func runHabitRemind(_ *cobra.Command, args []string) error {
	var r *model.ReminderTime
	if !strings.EqualFold(args[1], "off") {
		var err error
		if r, err = habit.ParseReminder(args[1]); err != nil {
			return err
		}
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	h, err := s.st.SetHabitReminder(args[0], r)
	if err != nil {
		return err
	}
	if h.Reminder == nil {
		fmt.Printf("  Reminder for %s cleared.\n", h.Name)
		return nil
	}
	fmt.Printf("  %s will remind you daily at %s (run tend daemon to deliver reminders)\n", h.Name, reminderLabel(h.Reminder))
	return nil
}

func typeLabel(h model.Habit) string {
	switch h.Type {
	case model.WeeklyFrequency:
		return fmt.Sprintf("weekly x%d", h.TargetPerWeek)
	case model.QuitHabit:
		return "quit"
	default:
		return "daily"
	}
}

func reminderLabel(r *model.ReminderTime) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// historyStrip renders the last n days oldest first: a filled block for a
// kept day, a dot otherwise.
func historyStrip(h model.Habit, day time.Time, n int) string {
	var b strings.Builder
	for i := n - 1; i >= 0; i-- {
		if habit.DoneOn(h, model.DayKey(day.AddDate(0, 0, -i))) {
			b.WriteString("█")
		} else {
			b.WriteString("·")
		}
	}
	return b.String()
}
