package errors

import (
	"fmt"
	"os/exec"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SyncError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SyncError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// NoHomeDir reports that the user's home directory cannot be resolved.
func NoHomeDir(err error) *SyncError {
	return Wrap(err, ErrCodeNoHomeDir, "unable to resolve home directory")
}

// NoRuntimeDir reports a missing XDG_RUNTIME_DIR.
func NoRuntimeDir() *SyncError {
	return New(ErrCodeNoRuntimeDir, "XDG_RUNTIME_DIR is not set")
}

// NoStorefrontDir reports that the Steam data directory does not exist.
func NoStorefrontDir(path string) *SyncError {
	return New(ErrCodeNoStorefrontDir, fmt.Sprintf("steam data directory not found: %s", path)).
		WithDetail("path", path)
}

// NoApplicationsDir reports that the launcher entries directory cannot be created.
func NoApplicationsDir(path string, err error) *SyncError {
	return Wrap(err, ErrCodeNoApplicationsDir, fmt.Sprintf("unable to create applications directory: %s", path)).
		WithDetail("path", path)
}

// SocketBindFailed reports that the control socket cannot be bound.
func SocketBindFailed(path string, err error) *SyncError {
	return Wrap(err, ErrCodeSocketBindFailed, fmt.Sprintf("failed to listen on socket: %s", path)).
		WithDetail("socket", path)
}

// WatchFailed reports that a filesystem subscription could not be established.
func WatchFailed(path string, err error) *SyncError {
	return Wrap(err, ErrCodeWatchFailed, fmt.Sprintf("failed to watch %s", path)).
		WithDetail("path", path)
}

// DaemonAlreadyRunning reports a live daemon holding the pidfile.
func DaemonAlreadyRunning(pid int) *SyncError {
	return New(ErrCodeDaemonAlreadyRunning, fmt.Sprintf("daemon already running with PID %d", pid)).
		WithDetail("pid", pid)
}

// DaemonNotRunning reports that no daemon socket exists.
func DaemonNotRunning(socket string) *SyncError {
	return New(ErrCodeDaemonNotRunning, "daemon is not running").
		WithDetail("socket", socket)
}

// TriggerChannelClosed reports the loss of the producer to scheduler channel.
func TriggerChannelClosed() *SyncError {
	return New(ErrCodeTriggerChannelClosed, "trigger channel closed unexpectedly")
}

// PostStepFailed wraps a failed desktop database refresh.
func PostStepFailed(cmd string, err error) *SyncError {
	syncErr := Wrap(err, ErrCodePostStepFailed, fmt.Sprintf("post-step failed: %s", cmd)).
		WithDetail("command", cmd)

	if exitErr, ok := err.(*exec.ExitError); ok {
		syncErr = syncErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return syncErr
}

// IconNotFound reports that no icon file exists for a game id.
func IconNotFound(id, root string) *SyncError {
	return New(ErrCodeIconNotFound, fmt.Sprintf("icon not found for id %s", id)).
		WithDetail("id", id).
		WithDetail("root", root)
}

// NameCollision reports a shortcut whose entry file is already claimed by
// another shortcut in the same pass.
func NameCollision(name, file string) *SyncError {
	return New(ErrCodeNameCollision, fmt.Sprintf("shortcut %q collides with another shortcut on %s", name, file)).
		WithDetail("file", file)
}

// CommandFailed creates a command execution failure error
func CommandFailed(cmd string, err error) *SyncError {
	syncErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	// Extract exit code if available
	if exitErr, ok := err.(*exec.ExitError); ok {
		syncErr = syncErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return syncErr
}
