// Package cmd implements the tend CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/cli"
	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/logging"
	"github.com/theirongolddev/tend/internal/model"
	"github.com/theirongolddev/tend/internal/pipeline"
	"github.com/theirongolddev/tend/internal/state"
	"github.com/theirongolddev/tend/internal/store"
)

var (
	flagDB      string
	flagDate    string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "tend",
	Short:         "Personal wellness tracker",
	Long:          "Track budget, habits, meals, cycle, sleep and water from the terminal.",
	RunE:          runToday,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagVerbose {
			logging.SetupWithLevel(slog.LevelDebug)
			return
		}
		logging.Setup()
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.RenderAlert(err.Error()))
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "Reference day as YYYY-MM-DD (default today)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// session bundles what a command needs: config, the open store and the
// loaded state. Close it when done.
type session struct {
	cfg config.Config
	kv  *store.Store
	st  *state.State
}

// openSession is the shared data loading path used by all commands.
func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	kv, result, err := pipeline.Open(dbPath(cfg), state.WithClock(clock()))
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, kv: kv, st: result.State}, nil
}

func (s *session) Close() {
	if err := s.kv.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
}

func dbPath(cfg config.Config) string {
	if flagDB != "" {
		return flagDB
	}
	return config.DBPath(cfg)
}

// referenceDay returns --date, or today.
func referenceDay() (time.Time, error) {
	if flagDate == "" {
		return model.StartOfDay(time.Now()), nil
	}
	d, err := model.ParseDay(flagDate)
	if err != nil {
		return time.Time{}, model.Invalid("date", "%v", err)
	}
	return d, nil
}

// clock pins "now" to --date so mutations default to that day.
func clock() func() time.Time {
	day, err := referenceDay()
	if err != nil || flagDate == "" {
		return time.Now
	}
	return func() time.Time {
		now := time.Now()
		return day.Add(now.Sub(model.StartOfDay(now)))
	}
}

// dayArg resolves an optional day argument against the reference day.
func dayArg(s string) (string, error) {
	if s == "" {
		d, err := referenceDay()
		if err != nil {
			return "", err
		}
		return model.DayKey(d), nil
	}
	if _, err := model.ParseDay(s); err != nil {
		return "", model.Invalid("date", "%v", err)
	}
	return s, nil
}

func info(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, "  "+format+"\n", args...)
}

func currency(cfg config.Config) string {
	return cfg.Budget.Currency
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
