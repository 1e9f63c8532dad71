// Package cmd defines core data structures for jira-sync configuration.
package cmd

// DefaultOpenAIModel is used for the chat-completions provider when the
// config file does not override it.
const DefaultOpenAIModel = "gpt-4-turbo-preview"

// DefaultAnthropicModel is used for the messages provider when the config
// file does not override it.
const DefaultAnthropicModel = "claude-3-5-sonnet-20241022"

// Config represents the structure of jira-sync.yaml
type Config struct {
	Org            string            `yaml:"org"`
	Repo           string            `yaml:"repo"`
	Remote         string            `yaml:"remote"`
	SourceBranch   string            `yaml:"source_branch"`
	AgentCommand   string            `yaml:"agent_command"`
	JiraBaseURL    string            `yaml:"jira_base_url"`
	OpenAIModel    string            `yaml:"openai_model,omitempty"`
	AnthropicModel string            `yaml:"anthropic_model,omitempty"`
	Fields         map[string]string `yaml:"fields,omitempty"` // field name -> default value applied on every update
}

// OpenAIModelOrDefault returns the configured OpenAI model or the default
func (c *Config) OpenAIModelOrDefault() string {
	if c.OpenAIModel != "" {
		return c.OpenAIModel
	}
	return DefaultOpenAIModel
}

// AnthropicModelOrDefault returns the configured Anthropic model or the default
func (c *Config) AnthropicModelOrDefault() string {
	if c.AnthropicModel != "" {
		return c.AnthropicModel
	}
	return DefaultAnthropicModel
}

// RemoteOrDefault returns the configured remote name or "origin"
func (c *Config) RemoteOrDefault() string {
	if c.Remote != "" {
		return c.Remote
	}
	return "origin"
}
