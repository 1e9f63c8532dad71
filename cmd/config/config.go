// Package config implements the config command for initializing and updating
// the jira-sync configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alan/jira-sync/cmd"
	"github.com/alan/jira-sync/internal/github"
)

// NewConfigCmd creates and returns the config command
func NewConfigCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) *cobra.Command {
	var (
		org          string
		repo         string
		remote       string
		sourceBranch string
		agentCommand string
		jiraBaseURL  string
	)

	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Initialize or update the jira-sync.yaml configuration file",
		Long: `Config creates or updates the jira-sync.yaml file.

When run from a git repository, the organization, repository and current
branch are auto-detected from the origin remote. The Jira base URL can also
come from the JIRA_BASE_URL environment variable at runtime; setting it here
makes it the default. The agent command is the local AI CLI used as the third
generation provider (e.g. 'claude' or 'cursor-agent').`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfig(*globalConfigFile, configValues{
				org:          org,
				repo:         repo,
				remote:       remote,
				sourceBranch: sourceBranch,
				agentCommand: agentCommand,
				jiraBaseURL:  jiraBaseURL,
			}, loadConfig, saveConfig)
		},
	}

	cobraCmd.Flags().StringVarP(&org, "org", "o", "", "GitHub organization or username (auto-detected from git if available)")
	cobraCmd.Flags().StringVarP(&repo, "repo", "r", "", "GitHub repository name (auto-detected from git if available)")
	cobraCmd.Flags().StringVar(&remote, "remote", "", "Git remote to sync against (defaults to 'origin')")
	cobraCmd.Flags().StringVarP(&sourceBranch, "source-branch", "s", "", "Branch to reconcile (auto-detected from git if available)")
	cobraCmd.Flags().StringVarP(&agentCommand, "agent", "a", "", "Local AI agent command (e.g. 'claude', 'cursor-agent')")
	cobraCmd.Flags().StringVarP(&jiraBaseURL, "jira-url", "j", "", "Jira base URL (e.g. https://example.atlassian.net)")

	return cobraCmd
}

type configValues struct {
	org          string
	repo         string
	remote       string
	sourceBranch string
	agentCommand string
	jiraBaseURL  string
}

func runConfig(configFile string, values configValues, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) error {
	config, isUpdate := loadOrCreateConfig(configFile, loadConfig)

	applyValues(config, values)
	fillFromGit(config)

	if config.Org == "" {
		return fmt.Errorf("organization is required (use --org or run from a git repository)")
	}
	if config.Repo == "" {
		return fmt.Errorf("repository is required (use --repo or run from a git repository)")
	}
	if config.SourceBranch == "" {
		config.SourceBranch = "main"
	}

	if err := saveConfig(configFile, config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	displayConfigSuccess(configFile, config, isUpdate)
	return nil
}

// loadOrCreateConfig loads existing config or creates a new one
func loadOrCreateConfig(configFile string, loadConfig func(string) (*cmd.Config, error)) (*cmd.Config, bool) {
	if config, err := loadConfig(configFile); err == nil {
		return config, true
	}
	return &cmd.Config{}, false
}

// applyValues overwrites config fields with any non-empty provided values.
func applyValues(config *cmd.Config, values configValues) {
	if values.org != "" {
		config.Org = values.org
	}
	if values.repo != "" {
		config.Repo = values.repo
	}
	if values.remote != "" {
		config.Remote = values.remote
	}
	if values.sourceBranch != "" {
		config.SourceBranch = values.sourceBranch
	}
	if values.agentCommand != "" {
		config.AgentCommand = values.agentCommand
	}
	if values.jiraBaseURL != "" {
		config.JiraBaseURL = strings.TrimRight(values.jiraBaseURL, "/")
	}
}

// fillFromGit auto-detects still-missing org/repo/branch values.
func fillFromGit(config *cmd.Config) {
	if config.Org != "" && config.Repo != "" && config.SourceBranch != "" {
		return
	}

	if config.Org == "" || config.Repo == "" {
		if org, repo, ok := detectRemote(config.RemoteOrDefault()); ok {
			if config.Org == "" {
				config.Org = org
				slog.Info("Auto-detected organization", "org", org)
			}
			if config.Repo == "" {
				config.Repo = repo
				slog.Info("Auto-detected repository", "repo", repo)
			}
		}
	}

	if config.SourceBranch == "" {
		if branch, err := currentBranch(); err == nil {
			config.SourceBranch = branch
			slog.Info("Auto-detected source branch", "branch", branch)
		}
	}
}

func detectRemote(remote string) (string, string, bool) {
	gitCmd := exec.Command("git", "remote", "get-url", remote)
	output, err := gitCmd.Output()
	if err != nil {
		return "", "", false
	}
	return github.ParseRemote(string(output))
}

func currentBranch() (string, error) {
	gitCmd := exec.Command("git", "branch", "--show-current")
	output, err := gitCmd.Output()
	if err != nil {
		return "", err
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", fmt.Errorf("unable to determine current branch")
	}
	return branch, nil
}

// displayConfigSuccess shows the configuration success message
func displayConfigSuccess(configFile string, config *cmd.Config, isUpdate bool) {
	action := "initialized"
	if isUpdate {
		action = "updated"
	}
	fmt.Printf("Successfully %s %s with:\n", action, configFile)
	fmt.Printf("  Organization: %s\n", config.Org)
	fmt.Printf("  Repository: %s\n", config.Repo)
	fmt.Printf("  Remote: %s\n", config.RemoteOrDefault())
	fmt.Printf("  Source Branch: %s\n", config.SourceBranch)
	if config.AgentCommand != "" {
		fmt.Printf("  Agent Command: %s\n", config.AgentCommand)
	}
	if config.JiraBaseURL != "" {
		fmt.Printf("  Jira Base URL: %s\n", config.JiraBaseURL)
	}
}
