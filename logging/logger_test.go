package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLoggers(t *testing.T) {
	t.Helper()
	loggersMu.Lock()
	loggers = make(map[string]*logrus.Entry)
	loggersMu.Unlock()
	t.Cleanup(func() {
		require.NoError(t, Close())
		loggersMu.Lock()
		loggers = make(map[string]*logrus.Entry)
		loggersMu.Unlock()
		SetGlobalOutput(os.Stderr)
	})
}

// writeConfig points SHORTCUT_SYNC_CONFIG at a file with the given content.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("SHORTCUT_SYNC_CONFIG", path)
}

func TestNewLogger_Singleton(t *testing.T) {
	resetLoggers(t)
	writeConfig(t, "")

	a := NewLogger("engine")
	b := NewLogger("engine")
	c := NewLogger("watcher")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "engine", a.Data["component"])
}

func TestNewLogger_Level(t *testing.T) {
	testCases := []struct {
		name   string
		config string
		env    string
		want   logrus.Level
	}{
		{"default", "", "", logrus.InfoLevel},
		{"from config", "logging:\n  level: debug\n", "", logrus.DebugLevel},
		{"env wins", "logging:\n  level: debug\n", "error", logrus.ErrorLevel},
		{"invalid falls back", "logging:\n  level: loud\n", "", logrus.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resetLoggers(t)
			writeConfig(t, tc.config)
			t.Setenv(EnvLogLevel, tc.env)

			assert.Equal(t, tc.want, NewLogger("level-test").Logger.GetLevel())
		})
	}
}

func TestNewLogger_StderrOutput(t *testing.T) {
	resetLoggers(t)
	writeConfig(t, "logging:\n  format:\n    disable_timestamp: true\n")
	t.Setenv(EnvLogLevel, "")

	var buf bytes.Buffer
	SetGlobalOutput(&buf)

	NewLogger("scheduler").WithField("source", "watcher").WithField("added", 2).Info("Sync complete")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "[INFO]"), line)
	assert.Contains(t, line, "scheduler")
	assert.Contains(t, line, "Sync complete added=2 source=watcher\n")
}

func TestNewLogger_NeverStderr(t *testing.T) {
	resetLoggers(t)
	writeConfig(t, "logging:\n  format:\n    structured_to_stderr: never\n")

	var buf bytes.Buffer
	SetGlobalOutput(&buf)

	NewLogger("quiet").Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNewLogger_JSONFileSink(t *testing.T) {
	resetLoggers(t)
	logPath := filepath.Join(t.TempDir(), "logs", "daemon.log")
	writeConfig(t, `logging:
  file:
    enabled: true
    path: `+logPath+`
  format:
    preset: json
    structured_to_stderr: never
`)
	t.Setenv(EnvLogLevel, "")

	NewLogger("engine").WithField("passes", 3).Info("Stopped")
	require.NoError(t, Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "Stopped", entry["msg"])
	assert.Equal(t, float64(3), entry["passes"])

	assert.Equal(t, logPath, LogFilePath())
}

func TestLogFilePath_Disabled(t *testing.T) {
	writeConfig(t, "")
	assert.Empty(t, LogFilePath())
}

func TestLogFilePath_DefaultsToStateDir(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)
	writeConfig(t, "logging:\n  file:\n    enabled: true\n")

	assert.Equal(t, filepath.Join(state, "steam-shortcut-sync", "daemon.log"), LogFilePath())
}

func TestTextFormatter(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableComponent: true}}
	entry := &logrus.Entry{
		Time:    time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Icon not found",
		Data:    logrus.Fields{"component": "syncer", "id": "100", "name": "Game A"},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 12:30:00 [WARN] Icon not found id=100 name=\"Game A\"\n", string(out))
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)

	p.Success("Sync complete")
	p.Added("Game A (100)")
	p.Removed("Old Game (200)")
	p.Field("passes", 3)

	out := buf.String()
	assert.Contains(t, out, "Sync complete")
	assert.Contains(t, out, "+")
	assert.Contains(t, out, "Game A (100)")
	assert.Contains(t, out, "Old Game (200)")
	assert.Contains(t, out, "passes")
}
