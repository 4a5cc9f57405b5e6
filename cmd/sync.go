package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grovetools/steam-shortcut-sync/cli"
	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/pidfile"
	"github.com/grovetools/steam-shortcut-sync/internal/daemon/syncer"
	"github.com/grovetools/steam-shortcut-sync/internal/shortcut"
	"github.com/grovetools/steam-shortcut-sync/logging"
	"github.com/grovetools/steam-shortcut-sync/pkg/paths"
)

// PlanOutput is the JSON form of 'sync --dry-run'.
type PlanOutput struct {
	Add        []shortcut.Record `json:"add"`
	Remove     []shortcut.Record `json:"remove"`
	Keep       int               `json:"keep"`
	Collisions []shortcut.Record `json:"collisions,omitempty"`
}

// NewSyncCmd returns the one-shot sync command.
func NewSyncCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass in the foreground",
		Long: `Run one reconciliation pass without the daemon. Refuses to run while the
daemon is up; use 'trigger' instead.

Examples:
  # Show what would change
  steam-shortcut-sync sync --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			defer logging.Close()

			s, err := newSyncer(cfg, syncConfig(cfg))
			if err != nil {
				return err
			}

			jsonOut := cli.GetOptions(cmd).JSONOutput
			pretty := logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout())

			if dryRun {
				preview, err := s.Plan(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return printJSON(cmd, planOutput(preview))
				}
				printPlan(pretty, preview)
				return nil
			}

			if err := ensureDaemonStopped(); err != nil {
				return err
			}

			report, err := s.Run(cmd.Context())
			if jsonOut {
				if jerr := printJSON(cmd, report); jerr != nil {
					return jerr
				}
				return err
			}
			printReport(pretty, report)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without changing anything")
	return cmd
}

// ensureDaemonStopped keeps a foreground pass from racing the daemon's worker.
func ensureDaemonStopped() error {
	pidPath, err := paths.PidFilePath()
	if err != nil {
		return err
	}
	running, pid, err := pidfile.IsRunning(pidPath)
	if err != nil {
		return err
	}
	if running {
		return errors.DaemonAlreadyRunning(pid)
	}
	return nil
}

func planOutput(preview *syncer.Preview) PlanOutput {
	plan := preview.Plan
	out := PlanOutput{
		Add:        plan.Adds(),
		Remove:     plan.Removes(),
		Keep:       plan.Counts().Keep,
		Collisions: preview.Collisions,
	}
	if out.Add == nil {
		out.Add = []shortcut.Record{}
	}
	if out.Remove == nil {
		out.Remove = []shortcut.Record{}
	}
	return out
}

func printPlan(pretty *logging.PrettyLogger, preview *syncer.Preview) {
	plan := preview.Plan
	for _, rec := range preview.Collisions {
		pretty.WarnPretty(fmt.Sprintf("%s (%s) collides with another shortcut on %s", rec.Name, rec.ID, shortcut.FileName(rec.Name)))
	}
	if plan.Empty() {
		pretty.Success(fmt.Sprintf("Up to date (%d shortcuts)", plan.Counts().Keep))
		return
	}
	for _, rec := range plan.Adds() {
		pretty.Added(fmt.Sprintf("%s (%s)", rec.Name, rec.ID))
	}
	for _, rec := range plan.Removes() {
		pretty.Removed(fmt.Sprintf("%s (%s)", rec.Name, rec.ID))
	}
	pretty.Divider()
	c := plan.Counts()
	pretty.InfoPretty(fmt.Sprintf("%d to add, %d to remove, %d unchanged", c.Add, c.Remove, c.Keep))
}

func printReport(pretty *logging.PrettyLogger, report syncer.Report) {
	for _, f := range report.Failures {
		pretty.WarnPretty(f.Error())
	}
	summary := fmt.Sprintf("Added %d, removed %d, kept %d in %s",
		report.Added, report.Removed, report.Kept, report.Duration.Round(time.Millisecond))
	if report.OK() {
		pretty.Success(summary)
	} else {
		pretty.WarnPretty(summary)
	}
}
