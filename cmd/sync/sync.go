// Package sync implements the sync command: reconcile the working branch
// with its upstream and report the outcome, without touching the tracker.
package sync

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alan/jira-sync/cmd"
	"github.com/alan/jira-sync/internal/commands"
	"github.com/alan/jira-sync/internal/gitsync"
)

// NewSyncCmd creates and returns the sync command
func NewSyncCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	var branch string

	cobraCmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the current branch with its upstream",
		Long: `Sync fetches the remote and integrates upstream changes into the current
branch with rebase, carrying uncommitted work through an autostash. Rebase or
autostash conflicts are reported and left for manual resolution.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runSync(cobraCmd, *globalConfigFile, branch, loadConfig)
		},
	}

	cobraCmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to reconcile (defaults to the checked-out branch)")

	return cobraCmd
}

func runSync(cobraCmd *cobra.Command, configFile, branch string, loadConfig func(string) (*cmd.Config, error)) error {
	if err := commands.ValidateGitRepository(); err != nil {
		return err
	}

	remote := ""
	if config, err := loadConfig(configFile); err == nil {
		remote = config.RemoteOrDefault()
		if branch == "" {
			branch = config.SourceBranch
		}
	}

	if branch == "" {
		current, err := commands.CurrentBranch()
		if err != nil {
			return err
		}
		branch = current
	}

	coordinator := gitsync.NewCoordinator(remote)
	result, err := coordinator.Reconcile(cobraCmd.Context(), branch)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	displayResult(branch, result)
	if result.Fatal() {
		return fmt.Errorf("sync halted: %s", result)
	}
	return nil
}

func displayResult(branch string, result *gitsync.Result) {
	switch result.Kind {
	case gitsync.KindUpToDate:
		commands.Success("%s is up to date", branch)
	case gitsync.KindSynced:
		commands.Success("Synced %s: %s", branch, result)
	case gitsync.KindConflictDetected:
		commands.Error("Rebase conflicts on %s:", branch)
		for _, file := range result.Files {
			commands.Info("   %s", file)
		}
		commands.Info("Resolve the conflicts, then run: git rebase --continue")
	case gitsync.KindAutostashFailed:
		commands.Error("Autostash reapply conflicted on %s", branch)
		commands.Info("Your changes are preserved in the stash: git stash pop when ready")
	case gitsync.KindSkipped:
		commands.Warn("Sync skipped: %s", result.Reason)
	}
}
