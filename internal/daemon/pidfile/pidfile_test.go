package pidfile

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "daemon.pid")

	require.NoError(t, Acquire(path))
	pid, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	running, runningPID, err := IsRunning(path)
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), runningPID)

	require.NoError(t, Release(path))
	assert.NoFileExists(t, path)
	require.NoError(t, Release(path))
}

func TestAcquire_LiveHolder(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0644))

	err := Acquire(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDaemonAlreadyRunning))
	assert.Equal(t, 11, errors.ExitCode(err))

	// Someone else's pidfile is left alone
	require.NoError(t, Release(path))
	assert.FileExists(t, path)
}

func TestAcquire_StaleFile(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	path := filepath.Join(t.TempDir(), "daemon.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0644))

	require.NoError(t, Acquire(path))
	pid, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestIsRunning_NoFile(t *testing.T) {
	running, pid, err := IsRunning(filepath.Join(t.TempDir(), "none.pid"))
	require.NoError(t, err)
	assert.False(t, running)
	assert.Zero(t, pid)
}
