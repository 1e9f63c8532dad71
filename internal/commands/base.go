// Package commands holds the shared plumbing the CLI commands build on:
// base initialization, argument parsing, git validation and display helpers.
package commands

import (
	"context"

	"github.com/alan/jira-sync/cmd"
	"github.com/alan/jira-sync/internal/credentials"
	"github.com/alan/jira-sync/internal/jira"
)

// BaseCommand provides common fields and initialization for all commands
type BaseCommand struct {
	ConfigFile *string
	LoadConfig func(string) (*cmd.Config, error)
	SaveConfig func(string, *cmd.Config) error
	Config     *cmd.Config
	Creds      *credentials.Context
	JiraClient *jira.Client
	Context    context.Context
}

// Init loads the configuration file. Commands that never touch the tracker
// stop here.
func (bc *BaseCommand) Init() error {
	config, err := bc.LoadConfig(*bc.ConfigFile)
	if err != nil {
		return err
	}
	bc.Config = config
	bc.Context = context.Background()
	return nil
}

// InitTracker resolves credentials and builds the Jira client. The
// email/token/base-url three-tuple is validated up front so tracker commands
// fail before doing any work.
func (bc *BaseCommand) InitTracker() error {
	if bc.Config == nil {
		if err := bc.Init(); err != nil {
			return err
		}
	}

	creds := credentials.NewResolver().Resolve(bc.Config.JiraBaseURL)
	if err := creds.ValidateJira(); err != nil {
		return err
	}

	bc.Creds = creds
	bc.JiraClient = jira.NewClient(creds)
	return nil
}
