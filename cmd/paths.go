package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/steam-shortcut-sync/cli"
	"github.com/grovetools/steam-shortcut-sync/config"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/syncer"
	"github.com/grovetools/steam-shortcut-sync/logging"
	"github.com/grovetools/steam-shortcut-sync/pkg/paths"
)

// PathsOutput represents the resolved paths used by the daemon.
type PathsOutput struct {
	ConfigFile      string `json:"config_file,omitempty"`
	SteamDataDir    string `json:"steam_data_dir"`
	SourceDir       string `json:"source_dir"`
	IconSourceDir   string `json:"icon_source_dir"`
	ApplicationsDir string `json:"applications_dir"`
	IconsDir        string `json:"icons_dir"`
	PixmapsDir      string `json:"pixmaps_dir"`
	Socket          string `json:"socket,omitempty"`
	PidFile         string `json:"pid_file"`
	LogFile         string `json:"log_file,omitempty"`
}

// NewPathsCmd returns the command printing every resolved path.
func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved directories and files",
		Long: `Print the directories the daemon reads and writes, after applying the
configuration file and the XDG environment. Output is JSON so scripts can
parse it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			out, err := resolvePaths(cfg)
			if err != nil {
				return err
			}
			return printJSON(cmd, out)
		},
	}
}

func resolvePaths(cfg *config.Config) (PathsOutput, error) {
	pidPath, err := paths.PidFilePath()
	if err != nil {
		return PathsOutput{}, err
	}

	syncCfg := syncer.Config{SteamDataDir: cfg.SteamDataDir}
	out := PathsOutput{
		SteamDataDir:    cfg.SteamDataDir,
		SourceDir:       syncCfg.SourceDir(),
		IconSourceDir:   syncCfg.IconSourceDir(),
		ApplicationsDir: cfg.ApplicationsDir,
		IconsDir:        cfg.IconsDir,
		PixmapsDir:      cfg.PixmapsDir,
		PidFile:         pidPath,
		LogFile:         logging.LogFilePath(),
	}

	// A missing runtime dir only matters to the daemon and its clients
	if sock, err := paths.SocketPath(); err == nil {
		out.Socket = sock
	}
	if path, err := configFile(); err == nil {
		out.ConfigFile = path
	}
	return out, nil
}
