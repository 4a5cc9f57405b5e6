package command

import (
	"context"
	"os/exec"
)

// Executor resolves and creates commands. Tests substitute an implementation
// that records invocations or simulates missing binaries.
type Executor interface {
	// CommandContext creates a context-aware exec.Cmd.
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd

	// LookPath resolves a command name against PATH.
	LookPath(name string) (string, error)
}

// RealExecutor runs commands through os/exec.
type RealExecutor struct{}

// CommandContext creates a standard context-aware exec.Cmd.
func (e *RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// LookPath wraps exec.LookPath.
func (e *RealExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
