package paths

import (
	"path/filepath"
	"testing"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXDGOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")

	apps, err := ApplicationsDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "applications"), apps)

	icons, err := IconsDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "icons"), icons)

	state, err := StateDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "state", AppName), state)

	cfg, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", AppName), cfg)

	steam, err := SteamDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", "data"), steam)
}

func TestSocketPath(t *testing.T) {
	t.Run("runtime dir set", func(t *testing.T) {
		t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
		p, err := SocketPath()
		require.NoError(t, err)
		assert.Equal(t, "/run/user/1000/steam-shortcut-sync.sock", p)
	})

	t.Run("runtime dir missing", func(t *testing.T) {
		t.Setenv("XDG_RUNTIME_DIR", "")
		_, err := SocketPath()
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeNoRuntimeDir))
	})
}

func TestHomeDirMissing(t *testing.T) {
	t.Setenv("HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	_, err := ApplicationsDir()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNoHomeDir))
}
