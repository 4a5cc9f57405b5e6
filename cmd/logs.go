package cmd

import (
	"fmt"
	"io"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/logging"
)

func newDaemonLogsCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the daemon log file",
		Long: `Print the rotated daemon log. File logging must be enabled:

  logging:
    file:
      enabled: true

Examples:
  # Follow the daemon log
  steam-shortcut-sync daemon logs -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := logging.LogFilePath()
			if path == "" {
				return errors.New(errors.ErrCodeInvalidInput, "file logging is disabled; set logging.file.enabled")
			}
			return tailLog(cmd, path, follow)
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	return cmd
}

// tailLog copies path to the command output, following it across rotation
// until the command context is cancelled when follow is set.
func tailLog(cmd *cobra.Command, path string, follow bool) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    follow,
		ReOpen:    follow,
		MustExist: !follow,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to open log file").
			WithDetail("path", path)
	}
	defer t.Cleanup()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-cmd.Context().Done():
			_ = t.Stop()
		case <-done:
		}
	}()

	out := cmd.OutOrStdout()
	for line := range t.Lines {
		if line.Err != nil {
			return line.Err
		}
		fmt.Fprintln(out, line.Text)
	}
	return nil
}
