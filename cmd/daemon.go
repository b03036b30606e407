package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/config"
	"github.com/theirongolddev/tend/internal/reminder"
	"github.com/theirongolddev/tend/internal/store"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the reminder daemon with HTTP/SSE endpoints",
	Long: "Polls the store, fires habit and payment reminders at their time of day, " +
		"and serves status, events and Prometheus metrics over HTTP.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon runs and what it has fired today",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE: func(_ *cobra.Command, _ []string) error {
		pid, err := reminder.Pidfile(flagDaemonPIDFile).Stop(8 * time.Second)
		if err != nil {
			return err
		}
		fmt.Printf("  Stopped daemon (pid %d)\n", pid)
		return nil
	},
}

func init() {
	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", filepath.Join(config.DataDir(), "tendd.pid"), "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", filepath.Join(config.DataDir(), "tendd.log"), "Log file for --detach")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Events kept in memory (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run in the background")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonConfig merges flags over the [reminders] config section.
func daemonConfig(cfg config.Config) reminder.Config {
	rc := reminder.Config{
		DBPath:       dbPath(cfg),
		Interval:     cfg.PollInterval(),
		Addr:         cfg.Reminders.Addr,
		EventsBuffer: cfg.Reminders.EventsBuffer,
		App:          cfg,
	}
	if flagDaemonAddr != "" {
		rc.Addr = flagDaemonAddr
	}
	if flagDaemonInterval > 0 {
		rc.Interval = flagDaemonInterval
	}
	if flagDaemonEventsBuffer > 0 {
		rc.EventsBuffer = flagDaemonEventsBuffer
	}
	return rc
}

func runDaemon(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rc := daemonConfig(cfg)

	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("--detach and --child are exclusive")
	case flagDaemonDetach:
		return detachDaemon(rc)
	default:
		return serveDaemon(rc)
	}
}

// detachDaemon re-executes the current command line as a background child
// whose output goes to the log file.
func detachDaemon(rc reminder.Config) error {
	if rt, err := reminder.Pidfile(flagDaemonPIDFile).Running(); err == nil {
		return fmt.Errorf("daemon already running (pid %d)", rt.PID)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := make([]string, 0, len(os.Args))
	for _, a := range os.Args[1:] {
		if a != "--detach" && !strings.HasPrefix(a, "--detach=") {
			args = append(args, a)
		}
	}
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // re-exec of the current binary
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started reminder daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  Status: http://%s/v1/status\n", rc.Addr)
	fmt.Printf("  Log:    %s\n", flagDaemonLogFile)
	return nil
}

func serveDaemon(rc reminder.Config) error {
	kv, err := store.Open(rc.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = kv.Close() }()

	svc := reminder.New(rc, kv)
	pf := reminder.Pidfile(flagDaemonPIDFile)
	if err := pf.Claim(reminder.Runtime{
		PID:       os.Getpid(),
		Addr:      svc.Addr(),
		DBPath:    rc.DBPath,
		StartedAt: time.Now(),
	}); err != nil {
		return err
	}
	defer pf.Release()

	fmt.Printf("  tend daemon listening on http://%s\n", svc.Addr())
	fmt.Printf("  Polling %s every %s\n", rc.DBPath, svc.Interval())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	rt, err := reminder.Pidfile(flagDaemonPIDFile).Running()
	switch {
	case errors.Is(err, reminder.ErrNotRunning) && rt.PID > 0:
		fmt.Printf("  Daemon: stale pid file (pid %d is gone)\n", rt.PID)
		return nil
	case errors.Is(err, reminder.ErrNotRunning):
		fmt.Println("  Daemon: not running")
		return nil
	case err != nil:
		return err
	}

	addr := rt.Addr
	if addr == "" {
		cfg, _ := config.Load()
		addr = daemonConfig(cfg).Addr
	}
	fmt.Printf("  Daemon PID: %d (since %s)\n", rt.PID, rt.StartedAt.Local().Format(time.Kitchen))
	fmt.Printf("  Address:    http://%s\n", addr)

	st, err := fetchDaemonStatus(addr)
	if err != nil {
		fmt.Printf("  API:        %v\n", err)
		return nil
	}

	last := "pending"
	if !st.LastPollAt.IsZero() {
		last = st.LastPollAt.Local().Format(time.RFC3339)
	}
	fmt.Printf("  Last poll:  %s (%d polls)\n", last, st.PollCount)
	fmt.Printf("  Day:        %s\n", st.Summary.Day)
	fmt.Printf("  Habits:     %d/%d\n", st.Summary.HabitsDone, st.Summary.HabitsTotal)
	fmt.Printf("  Water:      %d/%d ml\n", st.Summary.WaterML, st.Summary.WaterGoalML)
	fmt.Printf("  Reminders:  %d scheduled, %d fired\n", st.Summary.Scheduled, st.Fired)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func fetchDaemonStatus(addr string) (reminder.Status, error) {
	var st reminder.Status
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short local probe
	if err != nil {
		return st, fmt.Errorf("unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response: %w", err)
	}
	return st, nil
}
