package reminder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Runtime describes a running daemon. It is written next to the pid file
// so `daemon status` can find the listen address.
type Runtime struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	DBPath    string    `json:"db_path"`
	StartedAt time.Time `json:"started_at"`
}

// ErrNotRunning is returned when no live daemon owns the pid file.
var ErrNotRunning = errors.New("daemon is not running")

// Pidfile guards a single daemon instance per path.
type Pidfile string

func (p Pidfile) runtimePath() string { return string(p) + ".json" }

// Claim records rt as the owner. A stale file left by a dead process is
// replaced; a live one is an error.
func (p Pidfile) Claim(rt Runtime) error {
	if pid, err := p.pid(); err == nil && Alive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(string(p), []byte(strconv.Itoa(rt.PID)+"\n"), 0o600); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rt, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.runtimePath(), append(data, '\n'), 0o600)
}

// Release removes the pid file and its runtime record.
func (p Pidfile) Release() {
	_ = os.Remove(string(p))
	_ = os.Remove(p.runtimePath())
}

// Running returns the runtime record of the live owner. A stale pid file
// yields ErrNotRunning with the dead pid filled in.
func (p Pidfile) Running() (Runtime, error) {
	pid, err := p.pid()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Runtime{}, ErrNotRunning
		}
		return Runtime{}, err
	}
	if !Alive(pid) {
		return Runtime{PID: pid}, ErrNotRunning
	}

	rt := Runtime{PID: pid}
	//nolint:gosec // path is configured by the local user
	if data, err := os.ReadFile(p.runtimePath()); err == nil {
		_ = json.Unmarshal(data, &rt)
		rt.PID = pid
	}
	return rt, nil
}

// Stop sends SIGTERM to the owner and waits up to timeout for it to exit.
func (p Pidfile) Stop(timeout time.Duration) (int, error) {
	rt, err := p.Running()
	if err != nil {
		if rt.PID > 0 {
			p.Release()
		}
		return 0, err
	}

	proc, err := os.FindProcess(rt.PID)
	if err != nil {
		return 0, fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return 0, fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !Alive(rt.PID) {
			p.Release()
			return rt.PID, nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return 0, fmt.Errorf("daemon (pid %d) did not exit in time", rt.PID)
}

func (p Pidfile) pid() (int, error) {
	//nolint:gosec // path is configured by the local user
	data, err := os.ReadFile(string(p))
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p)
	}
	return pid, nil
}

// Alive reports whether a process with the given pid exists.
func Alive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
