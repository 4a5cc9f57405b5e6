// Package config loads the steam-shortcut-sync configuration file.
package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/grovetools/steam-shortcut-sync/pkg/paths"
	"github.com/grovetools/steam-shortcut-sync/util/pathutil"
)

const (
	DefaultDebounce     = 2 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// DefaultPostStep is the command run after every pass, with the applications
// directory appended.
var DefaultPostStep = []string{"update-desktop-database"}

// Config is the daemon configuration. Empty directories are filled in by
// ResolvePaths from the XDG layout.
type Config struct {
	SteamDataDir    string        `yaml:"steam_data_dir,omitempty" toml:"steam_data_dir,omitempty"`
	ApplicationsDir string        `yaml:"applications_dir,omitempty" toml:"applications_dir,omitempty"`
	IconsDir        string        `yaml:"icons_dir,omitempty" toml:"icons_dir,omitempty"`
	PixmapsDir      string        `yaml:"pixmaps_dir,omitempty" toml:"pixmaps_dir,omitempty"`
	LaunchCommand   string        `yaml:"launch_command,omitempty" toml:"launch_command,omitempty"`
	Debounce        time.Duration `yaml:"debounce,omitempty" toml:"debounce,omitempty"`
	PollInterval    time.Duration `yaml:"poll_interval,omitempty" toml:"poll_interval,omitempty"`
	PostStep        []string      `yaml:"post_step,omitempty" toml:"post_step,omitempty"`
	WatchIgnore     []string      `yaml:"watch_ignore,omitempty" toml:"watch_ignore,omitempty"`
	InitialSync     *bool         `yaml:"initial_sync,omitempty" toml:"initial_sync,omitempty"`

	// Extensions captures all other top-level keys, such as "logging".
	Extensions map[string]interface{} `yaml:"-" toml:"-"`
}

// knownKeys are the top-level keys decoded into Config fields.
var knownKeys = map[string]struct{}{
	"steam_data_dir":   {},
	"applications_dir": {},
	"icons_dir":        {},
	"pixmaps_dir":      {},
	"launch_command":   {},
	"debounce":         {},
	"poll_interval":    {},
	"post_step":        {},
	"watch_ignore":     {},
	"initial_sync":     {},
}

// Default returns a Config with defaults applied and no file loaded.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Debounce == 0 {
		c.Debounce = DefaultDebounce
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PostStep == nil {
		c.PostStep = append([]string{}, DefaultPostStep...)
	}
	if c.InitialSync == nil {
		trueVal := true
		c.InitialSync = &trueVal
	}
	if c.PixmapsDir == "" {
		c.PixmapsDir = paths.DefaultPixmapsDir
	}
}

// InitialSyncEnabled reports whether a pass runs at daemon startup.
func (c *Config) InitialSyncEnabled() bool {
	return c.InitialSync == nil || *c.InitialSync
}

// ResolvePaths fills empty directories from the XDG layout and expands ~ and
// environment variables in the configured ones. It fails when the home
// directory cannot be resolved.
func (c *Config) ResolvePaths() error {
	fields := []struct {
		value    *string
		fallback func() (string, error)
	}{
		{&c.SteamDataDir, paths.SteamDataDir},
		{&c.ApplicationsDir, paths.ApplicationsDir},
		{&c.IconsDir, paths.IconsDir},
	}

	for _, f := range fields {
		if *f.value == "" {
			dir, err := f.fallback()
			if err != nil {
				return err
			}
			*f.value = dir
			continue
		}
		expanded, err := pathutil.Expand(*f.value)
		if err != nil {
			return err
		}
		*f.value = expanded
	}

	if c.PixmapsDir != "" {
		expanded, err := pathutil.Expand(c.PixmapsDir)
		if err != nil {
			return err
		}
		c.PixmapsDir = expanded
	}
	return nil
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded file into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	decoder, err := newDecoder(target)
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

// newDecoder decodes generic maps using `yaml` tags, accepting duration
// strings such as "2s".
func newDecoder(target interface{}) (*mapstructure.Decoder, error) {
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
}
