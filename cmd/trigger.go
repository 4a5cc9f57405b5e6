package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/steam-shortcut-sync/logging"
	"github.com/grovetools/steam-shortcut-sync/pkg/daemon"
)

// NewTriggerCmd returns the command that asks the running daemon for a pass.
func NewTriggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Ask the running daemon to sync now",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := daemon.New()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			if err := client.RequestSync(ctx); err != nil {
				return err
			}

			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).Success("Sync requested")
			return nil
		},
	}
}
