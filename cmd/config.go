package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/steam-shortcut-sync/cli"
	"github.com/grovetools/steam-shortcut-sync/config"
	"github.com/grovetools/steam-shortcut-sync/logging"
)

// NewConfigCmd returns the config inspection commands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging override files, applying defaults
and resolving every directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			if path, err := configFile(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "# Source: %s\n", path)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := config.GenerateSchema(map[string]interface{}{
				"logging": &logging.Config{},
			})
			return printJSON(cmd, s)
		},
	})

	return cmd
}

// configFile returns the file LoadDefault reads, if any.
func configFile() (string, error) {
	if path := os.Getenv(config.EnvConfigPath); path != "" {
		return path, nil
	}
	return config.FindConfigFile()
}
