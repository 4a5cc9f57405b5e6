package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/grovetools/steam-shortcut-sync/config"
	"github.com/grovetools/steam-shortcut-sync/pkg/paths"
	"github.com/grovetools/steam-shortcut-sync/util/pathutil"
)

const (
	EnvLogLevel  = "SHORTCUT_SYNC_LOG_LEVEL"
	EnvLogCaller = "SHORTCUT_SYNC_LOG_CALLER"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	// fileSinks are shared across components writing to the same path so
	// rotation happens in one place.
	fileSinks = make(map[string]*lumberjack.Logger)
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	entry := build(component, loadConfig())
	loggers[component] = entry
	return entry
}

// loadConfig reads the "logging" section, falling back to defaults when the
// configuration cannot be loaded.
func loadConfig() Config {
	var logCfg Config
	cfg, err := config.LoadDefault()
	if err != nil {
		return logCfg
	}
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		// Log a warning if parsing fails, but continue with defaults
		logrus.Warnf("Failed to parse 'logging' config: %v", err)
	}
	return logCfg
}

func build(component string, logCfg Config) *logrus.Entry {
	logger := logrus.New()

	// Configure Level
	levelStr := "info"
	if env := os.Getenv(EnvLogLevel); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	if os.Getenv(EnvLogCaller) == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	// Configure Formatter
	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	// Configure Output Sinks
	var writers []io.Writer

	if logCfg.File.Enabled {
		if sink, err := fileSink(logCfg.File); err == nil {
			writers = append(writers, sink)
		} else {
			logger.Warnf("Failed to open log file: %v", err)
		}
	}

	if shouldLogToStderr(logCfg.Format.StructuredToStderr, logger.GetLevel()) {
		writers = append(writers, stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger.WithField("component", component)
}

// shouldLogToStderr resolves the stderr mode. The daemon reports progress on
// stderr, so the default is "always".
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "never":
		return false
	case "auto":
		// Log to stderr if debug is enabled, or if not in an interactive terminal
		isDebug := level >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		return isDebug || !isInteractive
	default:
		return true
	}
}

// fileSink returns the rotating writer for cfg, creating its directory.
// Callers must hold loggersMu.
func fileSink(cfg FileSinkConfig) (*lumberjack.Logger, error) {
	path := cfg.Path
	if path == "" {
		p, err := paths.LogFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	path, err := pathutil.Expand(path)
	if err != nil {
		return nil, err
	}

	if sink, ok := fileSinks[path]; ok {
		return sink, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(cfg.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: orDefault(cfg.MaxBackups, defaultMaxBackups),
		MaxAge:     orDefault(cfg.MaxAgeDays, defaultMaxAgeDays),
		Compress:   cfg.Compress,
	}
	fileSinks[path] = sink
	return sink, nil
}

// LogFilePath returns the file the configured file sink writes to, or "" if
// file logging is disabled.
func LogFilePath() string {
	cfg := loadConfig()
	if !cfg.File.Enabled {
		return ""
	}
	path := cfg.File.Path
	if path == "" {
		p, err := paths.LogFilePath()
		if err != nil {
			return ""
		}
		path = p
	}
	expanded, err := pathutil.Expand(path)
	if err != nil {
		return ""
	}
	return expanded
}

// Close flushes and closes every open file sink.
func Close() error {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	var firstErr error
	for path, sink := range fileSinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(fileSinks, path)
	}
	return firstErr
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
