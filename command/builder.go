package command

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grovetools/steam-shortcut-sync/errors"
)

const (
	// DefaultTimeout is the default command execution timeout
	DefaultTimeout = 2 * time.Minute

	// MaxTimeout is the maximum allowed timeout
	MaxTimeout = 10 * time.Minute
)

var commandNamePattern = regexp.MustCompile(`^[A-Za-z0-9_./+-]+$`)

// SafeBuilder provides validated, time-limited command execution.
type SafeBuilder struct {
	defaultTimeout time.Duration
	executor       Executor
}

// NewSafeBuilder creates a new SafeBuilder instance with a RealExecutor
func NewSafeBuilder() *SafeBuilder {
	return NewSafeBuilderWithExecutor(&RealExecutor{})
}

// NewSafeBuilderWithExecutor creates a new SafeBuilder with a custom Executor
func NewSafeBuilderWithExecutor(exec Executor) *SafeBuilder {
	return &SafeBuilder{
		defaultTimeout: DefaultTimeout,
		executor:       exec,
	}
}

// WithTimeout sets the timeout applied to commands built afterwards.
func (sb *SafeBuilder) WithTimeout(timeout time.Duration) *SafeBuilder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	sb.defaultTimeout = timeout
	return sb
}

// ValidateName rejects command names that are empty or carry shell syntax.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if !commandNamePattern.MatchString(name) {
		return fmt.Errorf("command name contains invalid characters: %q", name)
	}
	return nil
}

// Command is a validated command ready to run.
type Command struct {
	name     string
	args     []string
	timeout  time.Duration
	executor Executor
}

// Build validates name, resolves it on PATH and returns a runnable Command.
func (sb *SafeBuilder) Build(name string, args ...string) (*Command, error) {
	if err := ValidateName(name); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid command")
	}
	if _, err := sb.executor.LookPath(name); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCommandNotFound, fmt.Sprintf("command not found: %s", name)).
			WithDetail("command", name)
	}

	return &Command{
		name:     name,
		args:     args,
		timeout:  sb.defaultTimeout,
		executor: sb.executor,
	}, nil
}

// CombinedOutput runs the command under its timeout and returns stdout and
// stderr together. Failures are returned as COMMAND_FAILED errors.
func (c *Command) CombinedOutput(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.executor.CommandContext(ctx, c.name, c.args...).CombinedOutput() //nolint:gosec // name validated in Build
	if err != nil {
		return out, errors.CommandFailed(c.String(), err).
			WithDetail("output", strings.TrimSpace(string(out)))
	}
	return out, nil
}

// String returns the command line.
func (c *Command) String() string {
	return strings.Join(append([]string{c.name}, c.args...), " ")
}
