// Package generate produces commit messages and ticket comments by walking an
// ordered chain of interchangeable text providers, falling back to a
// deterministic rule-based generator when every backend is unconfigured,
// fails, or returns unusable output.
package generate

import (
	"context"
	"fmt"
	"strings"
)

// Kind selects what the chain is asked to produce.
type Kind string

const (
	// KindCommitMessage requests a conventional commit message
	KindCommitMessage Kind = "commit-message"
	// KindTicketComment requests an informal ticket update comment
	KindTicketComment Kind = "ticket-comment"
)

// Request carries everything a provider may use. Built once per pipeline run
// and never mutated.
type Request struct {
	Kind              Kind
	Diff              string
	TicketSummary     string
	TicketDescription string
	Branch            string
	CommitSHA         string
	CommitMessage     string
	CommitURL         string
	FilesChanged      []string
}

// Result is the accepted output of a generation run.
type Result struct {
	Text     string
	Provider string
	Success  bool
}

// Provider is a single text-generation backend. Each Generate call is
// single-shot: the chain never retries a provider.
type Provider interface {
	Name() string
	Available() bool
	Generate(ctx context.Context, req Request) (string, error)
}

// AuthError marks a provider as unusable for credential reasons. The chain
// advances to the next provider rather than to the rule-based fallback.
type AuthError struct {
	Provider string
	Detail   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %s", e.Provider, e.Detail)
}

// authPhrases are scanned (lower-cased) in provider response text to detect
// credential failures that APIs report with a 200-adjacent shape or that CLIs
// print to stderr.
var authPhrases = []string{
	"unauthorized",
	"invalid api key",
	"invalid x-api-key",
	"authentication",
	"not logged in",
	"run /login",
	"credential",
	"401",
}

// detectAuthError returns an *AuthError when body looks like a credential
// failure, nil otherwise.
func detectAuthError(provider, body string) error {
	lower := strings.ToLower(body)
	for _, phrase := range authPhrases {
		if strings.Contains(lower, phrase) {
			return &AuthError{Provider: provider, Detail: strings.TrimSpace(body)}
		}
	}
	return nil
}

// Minimum acceptable lengths per request kind. Short ticket-comment output is
// assumed to be an error stub or meta-commentary rather than a usable comment.
const (
	minCommitMessageLen = 5
	minTicketCommentLen = 50
)

// accepted reports whether text satisfies the length gate for kind.
func accepted(kind Kind, text string) bool {
	n := len(strings.TrimSpace(text))
	if kind == KindTicketComment {
		return n > minTicketCommentLen
	}
	return n > minCommitMessageLen
}
