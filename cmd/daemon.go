package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/steam-shortcut-sync/cli"
	"github.com/grovetools/steam-shortcut-sync/command"
	"github.com/grovetools/steam-shortcut-sync/config"
	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/engine"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/pidfile"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/scheduler"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/server"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/store"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/syncer"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/watcher"
	"github.com/grovetools/steam-shortcut-sync/logging"
	"github.com/grovetools/steam-shortcut-sync/pkg/daemon"
	"github.com/grovetools/steam-shortcut-sync/pkg/paths"
	"github.com/grovetools/steam-shortcut-sync/pkg/process"
)

// NewDaemonCmd returns the daemon command with subcommands.
func NewDaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the shortcut sync daemon",
		Long:  "Run and control the daemon that mirrors Flatpak Steam shortcuts into the desktop launcher.",
	}

	cmd.AddCommand(newDaemonStartCmd())
	cmd.AddCommand(newDaemonStopCmd())
	cmd.AddCommand(newDaemonStatusCmd())
	cmd.AddCommand(newDaemonLogsCmd())

	return cmd
}

func newDaemonStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the daemon",
		Long:  "Start the daemon in foreground mode. SIGINT or SIGTERM finishes the running pass and exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			defer logging.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runDaemon(ctx, cfg)
		},
	}
}

// runDaemon owns the pidfile, the socket and the engine for the lifetime of
// ctx. It returns after the in-flight pass, if any, has completed.
func runDaemon(ctx context.Context, cfg *config.Config) error {
	logger := logging.NewLogger("daemon")

	pidPath, err := paths.PidFilePath()
	if err != nil {
		return err
	}
	sockPath, err := paths.SocketPath()
	if err != nil {
		return err
	}

	if err := pidfile.Acquire(pidPath); err != nil {
		return err
	}
	defer func() {
		if err := pidfile.Release(pidPath); err != nil {
			logger.WithError(err).Error("Failed to release pidfile")
		}
	}()

	syncCfg := syncConfig(cfg)
	s, err := newSyncer(cfg, syncCfg)
	if err != nil {
		return err
	}
	if err := s.EnsureDirs(); err != nil {
		return err
	}

	w, err := watcher.New(syncCfg.SourceDir(), cfg.Debounce, cfg.WatchIgnore, logging.NewLogger("watcher"))
	if err != nil {
		return err
	}

	srv := server.New(sockPath, cfg.PollInterval, logging.NewLogger("server"))
	if err := srv.Listen(); err != nil {
		return err
	}
	defer srv.Close()

	st := store.New()
	sched := scheduler.New(s, st, logging.NewLogger("scheduler"))
	eng := engine.New(st, sched, logging.NewLogger("engine"))
	eng.Register(w)
	eng.Register(srv)
	eng.SetInitialSync(cfg.InitialSyncEnabled())

	logger.WithField("pid", os.Getpid()).
		WithField("socket", sockPath).
		WithField("source", syncCfg.SourceDir()).
		Info("Starting daemon")

	if err := eng.Start(ctx); err != nil {
		return err
	}

	state := st.Get()
	logger.WithField("passes", state.Passes).
		WithField("coalesced", state.Coalesced).
		Info("Daemon stopped")
	return nil
}

func syncConfig(cfg *config.Config) syncer.Config {
	return syncer.Config{
		SteamDataDir:    cfg.SteamDataDir,
		ApplicationsDir: cfg.ApplicationsDir,
		IconsDir:        cfg.IconsDir,
		PixmapsDir:      cfg.PixmapsDir,
		LaunchCommand:   cfg.LaunchCommand,
	}
}

func newSyncer(cfg *config.Config, syncCfg syncer.Config) (*syncer.Syncer, error) {
	return syncer.New(syncCfg,
		syncer.WithPostStep(syncer.CommandPostStep(command.NewSafeBuilder(), cfg.PostStep)),
		syncer.WithLogger(logging.NewLogger("syncer")),
	)
}

func newDaemonStopCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath, err := paths.PidFilePath()
			if err != nil {
				return err
			}

			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}

			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())
			if !running {
				pretty.InfoPretty("Daemon is not running")
				return nil
			}

			if err := process.Terminate(pid); err != nil {
				return err
			}

			if wait > 0 && !process.WaitForExit(pid, wait, 100*time.Millisecond) {
				return errors.New(errors.ErrCodeInternal, fmt.Sprintf("daemon (PID %d) did not exit within %s", pid, wait)).
					WithDetail("pid", pid)
			}

			pretty.Success(fmt.Sprintf("Stopped daemon (PID %d)", pid))
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 10*time.Second, "Wait for the daemon to exit (0 returns immediately)")
	return cmd
}

// StatusOutput is the JSON form of 'daemon status'.
type StatusOutput struct {
	Running bool         `json:"running"`
	PID     int          `json:"pid,omitempty"`
	Socket  string       `json:"socket"`
	State   *store.State `json:"state,omitempty"`
}

func newDaemonStatusCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check daemon status",
		Long: `Show whether the daemon is running and what its passes did.

Examples:
  # Print one pass per line until the daemon stops
  steam-shortcut-sync daemon status --follow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath, err := paths.PidFilePath()
			if err != nil {
				return err
			}
			client, err := daemon.New()
			if err != nil {
				return err
			}

			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}

			jsonOut := cli.GetOptions(cmd).JSONOutput
			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())

			out := StatusOutput{Running: running, PID: pid, Socket: client.SocketPath()}
			if !running {
				if jsonOut {
					return printJSON(cmd, out)
				}
				return errors.DaemonNotRunning(client.SocketPath())
			}
			if !client.IsRunning() {
				pretty.WarnPretty(fmt.Sprintf("Daemon process %d is alive but its socket is not accepting connections", pid))
				return errors.DaemonNotRunning(client.SocketPath()).WithDetail("pid", pid)
			}

			if follow {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return client.Watch(ctx, func(u store.Update) error {
					if jsonOut {
						return printJSONLine(cmd, u)
					}
					printUpdate(pretty, pid, client.SocketPath(), u)
					return nil
				})
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			state, err := client.Status(ctx)
			if err != nil {
				return err
			}
			out.State = state

			if jsonOut {
				return printJSON(cmd, out)
			}
			printState(pretty, pid, client.SocketPath(), state)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming passes until the daemon stops")
	return cmd
}

func printState(pretty *logging.PrettyLogger, pid int, socket string, state *store.State) {
	pretty.Success(fmt.Sprintf("Running (PID %d)", pid))
	pretty.Path("Socket", socket)
	pretty.Divider()
	pretty.Field("Passes", state.Passes)
	pretty.Field("Failed", state.Failed)
	pretty.Field("Coalesced", state.Coalesced)
	if state.Syncing {
		pretty.InfoPretty("Pass in progress")
	}
	if last := state.LastPass; last != nil {
		pretty.Field("Last pass", passSummary(last))
		if last.Error != "" {
			pretty.ErrorPretty("Last pass failed", fmt.Errorf("%s", last.Error))
		}
	}
}

func printUpdate(pretty *logging.PrettyLogger, pid int, socket string, u store.Update) {
	switch u.Type {
	case store.UpdateSnapshot:
		if u.State != nil {
			printState(pretty, pid, socket, u.State)
			pretty.Divider()
		}
	case store.UpdatePass:
		if u.Pass == nil {
			return
		}
		if u.Pass.Error != "" {
			pretty.ErrorPretty(passSummary(u.Pass), fmt.Errorf("%s", u.Pass.Error))
			return
		}
		for _, f := range u.Pass.Report.Failures {
			pretty.WarnPretty(f.Record.Name + ": " + f.Message)
		}
		pretty.InfoPretty(passSummary(u.Pass))
	case store.UpdateStopped:
		pretty.InfoPretty("Daemon stopped")
	}
}

func passSummary(p *store.Pass) string {
	return fmt.Sprintf("%s via %s (+%d -%d, %d failures)",
		p.Report.StartedAt.Format(time.RFC3339), p.Trigger.Source,
		p.Report.Added, p.Report.Removed, len(p.Report.Failures))
}

// printJSONLine writes v as one compact line, for streams.
func printJSONLine(cmd *cobra.Command, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
