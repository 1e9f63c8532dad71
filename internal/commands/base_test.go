package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alan/jira-sync/cmd"
	"github.com/alan/jira-sync/internal/credentials"
)

func TestBaseCommandInit(t *testing.T) {
	configFile := "jira-sync.yaml"
	bc := &BaseCommand{
		ConfigFile: &configFile,
		LoadConfig: func(filename string) (*cmd.Config, error) {
			assert.Equal(t, "jira-sync.yaml", filename)
			return &cmd.Config{Org: "alan", Repo: "jira-sync"}, nil
		},
	}

	require.NoError(t, bc.Init())
	assert.Equal(t, "alan", bc.Config.Org)
	assert.NotNil(t, bc.Context)
}

func TestBaseCommandInitLoadFailure(t *testing.T) {
	configFile := "missing.yaml"
	bc := &BaseCommand{
		ConfigFile: &configFile,
		LoadConfig: func(string) (*cmd.Config, error) {
			return nil, errors.New("no such file")
		},
	}

	assert.Error(t, bc.Init())
}

func TestBaseCommandInitTracker(t *testing.T) {
	t.Setenv(credentials.EnvJiraEmail, "dev@example.com")
	t.Setenv(credentials.EnvJiraToken, "tok-123")
	t.Setenv(credentials.EnvJiraBaseURL, "https://example.atlassian.net")

	configFile := "jira-sync.yaml"
	bc := &BaseCommand{
		ConfigFile: &configFile,
		LoadConfig: func(string) (*cmd.Config, error) {
			return &cmd.Config{}, nil
		},
	}

	require.NoError(t, bc.InitTracker())
	assert.Equal(t, "dev@example.com", bc.Creds.Email)
	assert.NotNil(t, bc.JiraClient)
}

func TestBaseCommandInitTrackerMissingCredentials(t *testing.T) {
	t.Setenv(credentials.EnvJiraEmail, "")
	t.Setenv(credentials.EnvJiraToken, "")
	t.Setenv(credentials.EnvJiraBaseURL, "")

	configFile := "jira-sync.yaml"
	bc := &BaseCommand{
		ConfigFile: &configFile,
		LoadConfig: func(string) (*cmd.Config, error) {
			return &cmd.Config{}, nil
		},
	}

	err := bc.InitTracker()
	require.Error(t, err)

	var cfgErr *credentials.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
