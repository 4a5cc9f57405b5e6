package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromBytes(t *testing.T) {
	t.Setenv("STEAM_ROOT", "/data/steam")

	testCases := []struct {
		name   string
		format string
		data   string
		check  func(t *testing.T, cfg *Config)
	}{
		{
			name:   "yaml",
			format: ".yml",
			data: `steam_data_dir: ${STEAM_ROOT}
debounce: 500ms
poll_interval: 1s
post_step: ["update-desktop-database", "-q"]
watch_ignore: ["*.tmp"]
initial_sync: false
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/steam", cfg.SteamDataDir)
				assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
				assert.Equal(t, time.Second, cfg.PollInterval)
				assert.Equal(t, []string{"update-desktop-database", "-q"}, cfg.PostStep)
				assert.Equal(t, []string{"*.tmp"}, cfg.WatchIgnore)
				assert.False(t, cfg.InitialSyncEnabled())
			},
		},
		{
			name:   "toml",
			format: ".toml",
			data: `applications_dir = "~/apps"
launch_command = "flatpak run --branch=beta com.valvesoftware.Steam"
debounce = "3s"

[logging]
level = "debug"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "~/apps", cfg.ApplicationsDir)
				assert.Equal(t, "flatpak run --branch=beta com.valvesoftware.Steam", cfg.LaunchCommand)
				assert.Equal(t, 3*time.Second, cfg.Debounce)
				assert.Contains(t, cfg.Extensions, "logging")
			},
		},
		{
			name:   "empty file uses defaults",
			format: ".yml",
			data:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultDebounce, cfg.Debounce)
				assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
				assert.Equal(t, DefaultPostStep, cfg.PostStep)
				assert.True(t, cfg.InitialSyncEnabled())
				assert.Equal(t, "/usr/share/pixmaps", cfg.PixmapsDir)
			},
		},
		{
			name:   "env default value",
			format: ".yml",
			data:   "icons_dir: ${UNSET_ICON_DIR:-/opt/icons}\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/opt/icons", cfg.IconsDir)
			},
		},
		{
			name:   "empty post step disables it",
			format: ".yml",
			data:   "post_step: []\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.PostStep)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadFromBytes([]byte(tc.data), tc.format)
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		format string
		data   string
	}{
		{"bad yaml", ".yml", "debounce: [unterminated"},
		{"bad toml", ".toml", "debounce = "},
		{"bad duration", ".yml", "debounce: soon\n"},
		{"negative poll", ".yml", "poll_interval: -1s\n"},
		{"shell in post step", ".yml", "post_step: [\"rm -rf ~\"]\n"},
		{"wrong type", ".yml", "watch_ignore: {a: b}\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tc.data), tc.format)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid), "got %v", err)
			assert.Equal(t, 12, errors.ExitCode(err))
		})
	}
}

func TestLoadDefault(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		cfg, err := LoadDefault()
		require.NoError(t, err)
		assert.Equal(t, DefaultDebounce, cfg.Debounce)
	})

	t.Run("yaml preferred over toml", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv(EnvConfigPath, "")
		t.Setenv("XDG_CONFIG_HOME", home)
		dir := filepath.Join(home, "steam-shortcut-sync")
		writeConfig(t, dir, "config.toml", `debounce = "9s"`)
		writeConfig(t, dir, "config.yml", "debounce: 4s\n")

		cfg, err := LoadDefault()
		require.NoError(t, err)
		assert.Equal(t, 4*time.Second, cfg.Debounce)
	})

	t.Run("explicit path from environment", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		path := writeConfig(t, t.TempDir(), "custom.toml", `debounce = "7s"`)
		t.Setenv(EnvConfigPath, path)

		cfg, err := LoadDefault()
		require.NoError(t, err)
		assert.Equal(t, 7*time.Second, cfg.Debounce)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "gone.yml"))
		_, err := LoadDefault()
		assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
	})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	base := writeConfig(t, dir, "config.yml", `debounce: 4s
watch_ignore: ["*.tmp"]
logging:
  level: info
  file:
    enabled: true
`)
	writeConfig(t, dir, "config.override.toml", `debounce = "1s"

[logging]
level = "debug"
`)

	cfg, err := Load(base)
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, []string{"*.tmp"}, cfg.WatchIgnore)

	var logCfg struct {
		Level string `yaml:"level"`
		File  struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"file"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.File.Enabled, "nested keys absent from the override survive")
}

func TestUnmarshalExtension(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
custom:
  name: test
  interval: 250ms
`), ".yml")
	require.NoError(t, err)

	var target struct {
		Name     string        `yaml:"name"`
		Interval time.Duration `yaml:"interval"`
	}
	require.NoError(t, cfg.UnmarshalExtension("custom", &target))
	assert.Equal(t, "test", target.Name)
	assert.Equal(t, 250*time.Millisecond, target.Interval)

	// Missing key leaves target untouched
	var other struct{ Value string }
	require.NoError(t, cfg.UnmarshalExtension("absent", &other))
	assert.Empty(t, other.Value)

	assert.NotContains(t, cfg.Extensions, "debounce")
}

func TestResolvePaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))

	cfg := Default()
	cfg.IconsDir = "~/my-icons"
	require.NoError(t, cfg.ResolvePaths())

	assert.Equal(t, filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", "data"), cfg.SteamDataDir)
	assert.Equal(t, filepath.Join(home, "data", "applications"), cfg.ApplicationsDir)
	assert.Equal(t, filepath.Join(home, "my-icons"), cfg.IconsDir)
}

func TestResolvePaths_NoHome(t *testing.T) {
	t.Setenv("HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	err := Default().ResolvePaths()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNoHomeDir))
}

func TestMergeMaps(t *testing.T) {
	base := map[string]interface{}{
		"a": 1,
		"nested": map[string]interface{}{
			"x": "base",
			"y": "base",
		},
		"list": []interface{}{"a"},
	}
	override := map[string]interface{}{
		"nested": map[string]interface{}{"y": "override"},
		"list":   []interface{}{"b"},
	}

	merged := mergeMaps(base, override)
	assert.Equal(t, 1, merged["a"])
	assert.Equal(t, map[string]interface{}{"x": "base", "y": "override"}, merged["nested"])
	assert.Equal(t, []interface{}{"b"}, merged["list"])
	// Inputs are not mutated
	assert.Equal(t, "base", base["nested"].(map[string]interface{})["y"])
}

func TestValidate(t *testing.T) {
	valid := Default()
	assert.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }},
		{"empty post step command", func(c *Config) { c.PostStep = []string{""} }},
		{"padded launch command", func(c *Config) { c.LaunchCommand = " steam " }},
		{"multiline launch command", func(c *Config) { c.LaunchCommand = "steam\nrm" }},
		{"nul in path", func(c *Config) { c.ApplicationsDir = "/tmp/\x00" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
		})
	}
}
