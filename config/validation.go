package config

import (
	"fmt"
	"strings"

	"github.com/grovetools/steam-shortcut-sync/command"
	"github.com/grovetools/steam-shortcut-sync/errors"
)

// Validate rejects values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Debounce < 0 {
		return errors.ConfigInvalid(fmt.Sprintf("debounce must not be negative, got %s", c.Debounce))
	}
	if c.PollInterval <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("poll_interval must be positive, got %s", c.PollInterval))
	}

	// An explicitly empty list disables the post-step
	if len(c.PostStep) > 0 {
		if err := command.ValidateName(c.PostStep[0]); err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("post_step: %v", err))
		}
	}

	if strings.TrimSpace(c.LaunchCommand) != c.LaunchCommand {
		return errors.ConfigInvalid("launch_command must not have leading or trailing whitespace")
	}
	if strings.ContainsAny(c.LaunchCommand, "\n\r") {
		return errors.ConfigInvalid("launch_command must be a single line")
	}

	for _, field := range []struct{ name, value string }{
		{"steam_data_dir", c.SteamDataDir},
		{"applications_dir", c.ApplicationsDir},
		{"icons_dir", c.IconsDir},
		{"pixmaps_dir", c.PixmapsDir},
	} {
		if err := validatePath(field.name, field.value); err != nil {
			return err
		}
	}

	return nil
}

// validatePath rejects paths containing NUL bytes or newlines.
func validatePath(fieldName, path string) error {
	if strings.ContainsAny(path, "\x00\n") {
		return errors.ConfigInvalid(fmt.Sprintf("%s contains invalid characters", fieldName))
	}
	return nil
}
