package generate

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// agentRunner executes the agent command with the prompt on stdin and extra
// environment entries, returning stdout and any stderr text on failure.
type agentRunner func(ctx context.Context, command string, extraEnv []string, prompt string) (string, error)

// AgentProvider invokes a locally installed agent CLI (cursor-agent, claude,
// and the like). The first attempt runs without an explicit secret, in case
// the agent is already authenticated; on failure it is retried exactly once
// with the configured secret injected into the child environment.
type AgentProvider struct {
	command   string
	secret    string
	secretEnv string
	run       agentRunner
}

// NewAgentProvider returns an agent provider for the given command. secret
// may be empty; secretEnv names the environment variable the retry sets.
func NewAgentProvider(command, secret, secretEnv string) *AgentProvider {
	return &AgentProvider{
		command:   command,
		secret:    secret,
		secretEnv: secretEnv,
		run:       runAgentCommand,
	}
}

// Name identifies the provider in logs and results
func (*AgentProvider) Name() string { return "agent" }

// Available reports whether an agent command is configured
func (p *AgentProvider) Available() bool { return p.command != "" }

// Generate runs the agent, retrying once with the explicit secret when the
// unauthenticated attempt fails.
func (p *AgentProvider) Generate(ctx context.Context, req Request) (string, error) {
	prompt := BuildPrompt(req)

	out, err := p.run(ctx, p.command, nil, prompt)
	if err == nil && strings.TrimSpace(out) != "" {
		return out, nil
	}

	if p.secret == "" || p.secretEnv == "" {
		return "", p.classifyFailure(out, err)
	}

	slog.Info("Agent attempt without secret failed, retrying with explicit secret", "command", p.command)
	out, retryErr := p.run(ctx, p.command, []string{p.secretEnv + "=" + p.secret}, prompt)
	if retryErr == nil && strings.TrimSpace(out) != "" {
		return out, nil
	}

	return "", p.classifyFailure(out, retryErr)
}

func (p *AgentProvider) classifyFailure(out string, err error) error {
	detail := out
	if err != nil {
		detail = err.Error() + " " + out
	}

	if authErr := detectAuthError(p.Name(), detail); authErr != nil {
		return authErr
	}

	if err != nil {
		return fmt.Errorf("agent %s failed: %w", p.command, err)
	}
	return fmt.Errorf("agent %s produced no output", p.command)
}

func runAgentCommand(ctx context.Context, command string, extraEnv []string, prompt string) (string, error) {
	cmd := exec.CommandContext(ctx, command) //nolint:gosec // Agent command is user-configured
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Env = append(os.Environ(), extraEnv...)

	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return string(out), err
	}

	return strings.TrimSpace(string(out)), nil
}
