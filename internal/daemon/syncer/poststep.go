package syncer

import (
	"context"

	"github.com/grovetools/steam-shortcut-sync/command"
)

// DefaultPostStep refreshes the desktop database so launchers pick up changes.
var DefaultPostStep = []string{"update-desktop-database"}

// PostStep runs once after a pass has applied its mutations.
type PostStep func(ctx context.Context, applicationsDir string) error

// CommandPostStep returns a PostStep that runs argv with the applications
// directory appended as the final argument. An empty argv disables the step.
func CommandPostStep(builder *command.SafeBuilder, argv []string) PostStep {
	return func(ctx context.Context, applicationsDir string) error {
		if len(argv) == 0 {
			return nil
		}
		args := append(append([]string{}, argv[1:]...), applicationsDir)

		cmd, err := builder.Build(argv[0], args...)
		if err != nil {
			return err
		}
		_, err = cmd.CombinedOutput(ctx)
		return err
	}
}
