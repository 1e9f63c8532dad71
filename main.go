// package main is the entry point for the jira-sync tool
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alan/jira-sync/cmd/comment"
	configcmd "github.com/alan/jira-sync/cmd/config"
	"github.com/alan/jira-sync/cmd/convert"
	synccmd "github.com/alan/jira-sync/cmd/sync"
	"github.com/alan/jira-sync/internal/config"
	"github.com/alan/jira-sync/internal/logging"
)

func main() {
	var configFile string
	var logLevel string
	var logFormat string
	var logFile string

	rootCmd := &cobra.Command{
		Use:   "jira-sync",
		Short: "Sync your branch and post progress updates to Jira tickets",
		Long: `jira-sync reconciles your working branch with its upstream, generates a
progress comment from the latest commit through a chain of AI providers (with
a deterministic fallback), and applies the update to a Jira ticket: comment,
custom fields, workflow transition, assignee and mentions.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			slog.SetDefault(logging.Setup(logLevel, logFormat, logFile))
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "jira-sync.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file, with rotation")

	// Create commands with access to the global config file
	rootCmd.AddCommand(configcmd.NewConfigCmd(&configFile, config.LoadConfig, config.SaveConfig))
	rootCmd.AddCommand(synccmd.NewSyncCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(comment.NewCommentCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(convert.NewConvertCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
