package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/calendar"
	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/pipeline"
)

var (
	flagCalDays     int
	flagCalAt       string
	flagCalDuration time.Duration
	flagCalAllDay   bool
	flagCalType     string
)

var calCmd = &cobra.Command{
	Use:     "cal",
	Aliases: []string{"calendar", "agenda"},
	Short:   "Agenda of events, meals, payments, cycle days and to-dos",
	RunE:    runCalAgenda,
}

var calAddCmd = &cobra.Command{
	Use:   "add <title> <YYYY-MM-DD>",
	Short: "Add a calendar event",
	Args:  cobra.ExactArgs(2),
	RunE:  runCalAdd,
}

var calRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a calendar event",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalRm,
}

func init() {
	calCmd.Flags().IntVarP(&flagCalDays, "days", "n", 0, "Days to show (default from config)")

	calAddCmd.Flags().StringVar(&flagCalAt, "at", "", "Start time as HH:MM (omit for an all-day event)")
	calAddCmd.Flags().DurationVar(&flagCalDuration, "duration", time.Hour, "Event length")
	calAddCmd.Flags().BoolVar(&flagCalAllDay, "all-day", false, "All-day event")
	calAddCmd.Flags().StringVar(&flagCalType, "type", string(model.EventGeneral), "event, meal, habit, payment or cycle")

	calCmd.AddCommand(calAddCmd, calRmCmd)
	rootCmd.AddCommand(calCmd)
}

func runCalAgenda(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	from, err := referenceDay()
	if err != nil {
		return err
	}
	days := flagCalDays
	if days <= 0 {
		days = s.cfg.General.DefaultDays
	}
	to := from.AddDate(0, 0, days)

	items := calendar.Agenda(pipeline.AgendaInput(s.st, s.cfg), from, to)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("AGENDA  %s - %s", cli.FormatDay(from), cli.FormatDay(to.AddDate(0, 0, -1)))))

	if len(items) == 0 {
		fmt.Println("\n  Nothing scheduled.")
		return nil
	}

	for _, d := range calendar.GroupByDay(items) {
		fmt.Println()
		fmt.Printf("  %s\n", cli.FormatDay(d.Date))
		for _, it := range d.Items {
			title := it.Title
			if it.Done {
				title = cli.RenderMuted(title + " (done)")
			}
			src := ""
			if it.Type == model.EventGeneral && it.Source != "" {
				src = cli.RenderMuted("  " + shortID(it.Source))
			}
			fmt.Printf("    %-7s %-8s %s%s\n", cli.FormatClock(it.Start, it.AllDay), it.Type, title, src)
		}
	}
	fmt.Println()
	return nil
}

func runCalAdd(_ *cobra.Command, args []string) error {
	day, err := model.ParseDay(args[1])
	if err != nil {
		return model.Invalid("date", "%v", err)
	}

	ev := model.CalendarEvent{
		Title:  args[0],
		Type:   model.EventType(flagCalType),
		Start:  day,
		AllDay: flagCalAllDay || flagCalAt == "",
	}
	if !ev.AllDay {
		offset, err := model.ParseClock(flagCalAt)
		if err != nil {
			return model.Invalid("at", "%v", err)
		}
		if flagCalDuration <= 0 {
			return model.Invalid("duration", "must be positive")
		}
		ev.Start = day.Add(offset)
		ev.End = ev.Start.Add(flagCalDuration)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	ev, err = s.st.AddEvent(ev)
	if err != nil {
		return err
	}
	fmt.Printf("  Added %q on %s %s (%s)\n", ev.Title, cli.FormatDay(ev.Start), cli.FormatClock(ev.Start, ev.AllDay), shortID(ev.ID))
	return nil
}

func runCalRm(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.st.DeleteEvent(args[0]); err != nil {
		return err
	}
	fmt.Println("  Event deleted.")
	return nil
}
