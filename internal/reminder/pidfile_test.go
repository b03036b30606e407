package reminder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadPID is above any kernel pid_max.
const deadPID = 2147483646

func TestPidfileClaimAndRunning(t *testing.T) {
	p := Pidfile(filepath.Join(t.TempDir(), "run", "tendd.pid"))

	_, err := p.Running()
	assert.ErrorIs(t, err, ErrNotRunning)

	self := Runtime{PID: os.Getpid(), Addr: "127.0.0.1:8787", DBPath: "/tmp/tend.db", StartedAt: time.Now()}
	require.NoError(t, p.Claim(self))

	rt, err := p.Running()
	require.NoError(t, err)
	assert.Equal(t, self.PID, rt.PID)
	assert.Equal(t, "127.0.0.1:8787", rt.Addr)

	err = p.Claim(Runtime{PID: os.Getpid()})
	assert.ErrorContains(t, err, "already running")

	p.Release()
	_, err = p.Running()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestPidfileStaleIsReplaced(t *testing.T) {
	p := Pidfile(filepath.Join(t.TempDir(), "tendd.pid"))
	require.NoError(t, os.WriteFile(string(p), []byte("2147483646\n"), 0o600))

	rt, err := p.Running()
	assert.ErrorIs(t, err, ErrNotRunning)
	assert.Equal(t, deadPID, rt.PID)

	require.NoError(t, p.Claim(Runtime{PID: os.Getpid()}))
	rt, err = p.Running()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), rt.PID)
}

func TestPidfileStopStale(t *testing.T) {
	p := Pidfile(filepath.Join(t.TempDir(), "tendd.pid"))
	require.NoError(t, os.WriteFile(string(p), []byte("2147483646\n"), 0o600))

	_, err := p.Stop(time.Second)
	assert.ErrorIs(t, err, ErrNotRunning)
	_, statErr := os.Stat(string(p))
	assert.True(t, os.IsNotExist(statErr), "stale pid file is cleaned up")
}

func TestPidfileInvalidContent(t *testing.T) {
	p := Pidfile(filepath.Join(t.TempDir(), "tendd.pid"))
	require.NoError(t, os.WriteFile(string(p), []byte("garbage"), 0o600))

	_, err := p.Running()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRunning)
}
