package main

import (
	"os"

	"github.com/grovetools/steam-shortcut-sync/cli"
	"github.com/grovetools/steam-shortcut-sync/cmd"
	"github.com/grovetools/steam-shortcut-sync/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"steam-shortcut-sync",
		"Mirror Flatpak Steam game shortcuts into the desktop launcher",
	)
	rootCmd.Version = version.GetInfo().Version

	rootCmd.AddCommand(cmd.NewDaemonCmd())
	rootCmd.AddCommand(cmd.NewSyncCmd())
	rootCmd.AddCommand(cmd.NewTriggerCmd())
	rootCmd.AddCommand(cmd.NewPathsCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("steam-shortcut-sync"))

	if err := rootCmd.Execute(); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		os.Exit(cli.NewErrorHandler(os.Stderr, verbose).Handle(err))
	}
}
