// Package paths provides XDG-compliant path resolution for steam-shortcut-sync.
//
// Resolution order for each base directory:
// 1. XDG env vars → $XDG_*_HOME
// 2. Platform defaults → ~/.config, ~/.local/share, ~/.local/state
//
// Unlike most XDG helpers, the functions here report an error when the
// home directory or runtime directory cannot be resolved; the daemon treats
// those as fatal startup conditions.
package paths

import (
	"os"
	"path/filepath"

	"github.com/grovetools/steam-shortcut-sync/errors"
)

const (
	// AppName is the directory name used under the XDG base directories.
	AppName = "steam-shortcut-sync"

	// SteamFlatpakID is the Flatpak application ID of the Steam client.
	SteamFlatpakID = "com.valvesoftware.Steam"

	// SocketName is the control socket filename inside XDG_RUNTIME_DIR.
	SocketName = "steam-shortcut-sync.sock"

	// DefaultPixmapsDir is the system-wide fallback icon directory.
	DefaultPixmapsDir = "/usr/share/pixmaps"
)

// HomeDir returns the user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.NoHomeDir(err)
	}
	return home, nil
}

// getConfigHome returns the base config home directory.
func getConfigHome() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// getDataHome returns the base data home directory.
func getDataHome() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return xdgDataHome, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share"), nil
}

// getStateHome returns the base state home directory.
func getStateHome() (string, error) {
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome, nil
	}
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state"), nil
}

// ConfigDir returns the configuration directory.
// Used for config.yml / config.toml.
func ConfigDir() (string, error) {
	base, err := getConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// StateDir returns the state directory.
// Used for the pidfile and log files.
func StateDir() (string, error) {
	base, err := getStateHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// SteamDataDir returns the private data directory of the Flatpak Steam client.
func SteamDataDir() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".var", "app", SteamFlatpakID, "data"), nil
}

// ApplicationsDir returns the user's launcher entries directory.
func ApplicationsDir() (string, error) {
	base, err := getDataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "applications"), nil
}

// IconsDir returns the user's icon directory.
func IconsDir() (string, error) {
	base, err := getDataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "icons"), nil
}

// RuntimeDir returns XDG_RUNTIME_DIR. There is no fallback: the socket must
// live somewhere only the user can reach.
func RuntimeDir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}
	return "", errors.NoRuntimeDir()
}

// SocketPath returns the path to the daemon control socket.
func SocketPath() (string, error) {
	dir, err := RuntimeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SocketName), nil
}

// PidFilePath returns the path to the daemon PID file.
func PidFilePath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "daemon.pid"), nil
}

// LogFilePath returns the default path of the rotated daemon log.
func LogFilePath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "daemon.log"), nil
}
