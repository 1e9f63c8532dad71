// Package credentials resolves the Jira and AI provider secrets used by the
// update pipeline. Environment variables take precedence; on macOS the
// keychain is consulted as a fallback via the security command.
package credentials

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Context holds every secret the pipeline needs. It is resolved once at
// startup and treated as read-only afterwards.
type Context struct {
	// Jira three-tuple, all required before any tracker write
	Email    string
	APIToken string
	BaseURL  string

	// AI provider secrets, each optional
	OpenAIKey    string
	AnthropicKey string
}

// ConfigurationError indicates a required credential is missing. It is fatal:
// no tracker operation is attempted when it is returned.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// LookupFunc resolves a single named secret, returning "" when unavailable.
type LookupFunc func(name string) string

// Resolver resolves credentials through an ordered list of lookups.
type Resolver struct {
	lookups []LookupFunc
}

// NewResolver returns a resolver using the default lookup order:
// environment variables, then the macOS keychain.
func NewResolver() *Resolver {
	return &Resolver{lookups: []LookupFunc{os.Getenv, keychainLookup}}
}

// NewResolverWithLookups returns a resolver using the given lookups, tried in
// order. Used by tests to avoid touching the environment or keychain.
func NewResolverWithLookups(lookups ...LookupFunc) *Resolver {
	return &Resolver{lookups: lookups}
}

// Environment variable names, matching the original automation scripts.
const (
	EnvJiraEmail    = "JIRA_EMAIL"
	EnvJiraToken    = "JIRA_API_TOKEN"
	EnvJiraBaseURL  = "JIRA_BASE_URL"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

// Resolve builds a credential context. configBaseURL, when non-empty, is used
// as the Jira base address if no environment override exists.
func (r *Resolver) Resolve(configBaseURL string) *Context {
	ctx := &Context{
		Email:        r.lookup(EnvJiraEmail),
		APIToken:     r.lookup(EnvJiraToken),
		BaseURL:      r.lookup(EnvJiraBaseURL),
		OpenAIKey:    r.lookup(EnvOpenAIKey),
		AnthropicKey: r.lookup(EnvAnthropicKey),
	}

	if ctx.BaseURL == "" {
		ctx.BaseURL = configBaseURL
	}
	ctx.BaseURL = strings.TrimRight(ctx.BaseURL, "/")

	return ctx
}

func (r *Resolver) lookup(name string) string {
	for _, fn := range r.lookups {
		if v := strings.TrimSpace(fn(name)); v != "" {
			return v
		}
	}
	return ""
}

// ValidateJira checks the Jira three-tuple and returns a ConfigurationError
// listing everything missing.
func (c *Context) ValidateJira() error {
	var missing []string
	if c.Email == "" {
		missing = append(missing, EnvJiraEmail)
	}
	if c.APIToken == "" {
		missing = append(missing, EnvJiraToken)
	}
	if c.BaseURL == "" {
		missing = append(missing, EnvJiraBaseURL)
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// keychainServices maps environment variable names to the macOS keychain
// service names the original automation stored secrets under.
var keychainServices = map[string]string{
	EnvJiraToken:    "jira-api-token",
	EnvOpenAIKey:    "openai-api-key",
	EnvAnthropicKey: "anthropic-api-key",
}

// keychainLookup reads a secret from the macOS keychain. Returns "" on any
// failure, including on platforms without the security command.
func keychainLookup(name string) string {
	service, ok := keychainServices[name]
	if !ok {
		return ""
	}

	out, err := exec.Command("security", "find-generic-password", "-w", "-s", service, "-a", "automation").Output()
	if err != nil {
		slog.Debug("Keychain lookup failed", "service", service, "error", err)
		return ""
	}

	return strings.TrimSpace(string(out))
}
