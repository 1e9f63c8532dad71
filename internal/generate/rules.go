package generate

import (
	"context"
	"fmt"
	"strings"
)

// RuleBased is the deterministic, network-free fallback generator. It
// classifies the change by keyword and path-fragment matching and emits a
// conventional type(scope): subject string. It fails only when there is no
// diff to classify.
type RuleBased struct{}

// Name identifies the generator in logs and results
func (*RuleBased) Name() string { return "rules" }

// Available always reports true; the fallback needs no configuration
func (*RuleBased) Available() bool { return true }

// Generate classifies the request's diff and file set. For ticket-comment
// requests the classified subject is expanded into a full deterministic
// update so the output is usable as a posted comment.
func (r *RuleBased) Generate(_ context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Diff) == "" && len(req.FilesChanged) == 0 {
		return "", fmt.Errorf("no diff to classify")
	}

	message := classify(req)

	if req.Kind == KindTicketComment {
		return r.ticketComment(req, message), nil
	}

	return message, nil
}

// commitType keyword sets, checked against the diff text and branch name.
var commitTypeKeywords = map[string][]string{
	"fix":      {"fix", "bug", "bugfix", "hotfix", "patch"},
	"refactor": {"refactor", "restructure", "cleanup", "clean up"},
	"test":     {"test", "spec", "assert"},
}

// scopeFragments are matched against changed file paths, first hit wins.
var scopeFragments = []string{"api", "auth", "docker", "ci", "config", "db", "ui"}

var subjects = map[string]string{
	"feat":     "add new functionality",
	"fix":      "resolve issue",
	"refactor": "restructure code",
	"test":     "update tests",
	"docs":     "update documentation",
	"chore":    "update project files",
}

func classify(req Request) string {
	commitType := classifyType(req)
	scope := classifyScope(req.FilesChanged)

	subject := subjects[commitType]
	if scope != "" {
		return fmt.Sprintf("%s(%s): %s", commitType, scope, subject)
	}
	return fmt.Sprintf("%s: %s", commitType, subject)
}

func classifyType(req Request) string {
	if onlyTestFiles(req.FilesChanged) {
		return "test"
	}
	if onlyDocFiles(req.FilesChanged) {
		return "docs"
	}

	haystack := strings.ToLower(req.Diff + " " + req.Branch)
	for _, commitType := range []string{"fix", "refactor", "test"} {
		for _, keyword := range commitTypeKeywords[commitType] {
			if strings.Contains(haystack, keyword) {
				return commitType
			}
		}
	}

	// Added code constructs suggest new functionality
	for _, construct := range []string{"+func ", "+def ", "+class ", "+type ", "+interface "} {
		if strings.Contains(req.Diff, construct) {
			return "feat"
		}
	}

	return "chore"
}

func classifyScope(files []string) string {
	joined := strings.ToLower(strings.Join(files, " "))
	for _, fragment := range scopeFragments {
		if strings.Contains(joined, fragment) {
			return fragment
		}
	}
	return ""
}

func onlyTestFiles(files []string) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		lower := strings.ToLower(f)
		if !strings.Contains(lower, "test") && !strings.Contains(lower, "spec") {
			return false
		}
	}
	return true
}

func onlyDocFiles(files []string) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		lower := strings.ToLower(f)
		if !strings.HasSuffix(lower, ".md") && !strings.HasSuffix(lower, ".rst") && !strings.Contains(lower, "docs/") {
			return false
		}
	}
	return true
}

// ticketComment renders a deterministic developer update around the
// classified change. Kept plain on purpose: no network, no variation.
func (r *RuleBased) ticketComment(req Request, message string) string {
	var b strings.Builder

	branch := req.Branch
	if branch == "" {
		branch = "the working branch"
	}

	fmt.Fprintf(&b, "Done with the latest changes on %s.\n\n", branch)
	b.WriteString("What changed:\n")

	files := req.FilesChanged
	const maxListed = 10
	if len(files) > maxListed {
		files = files[:maxListed]
	}
	if len(files) == 0 {
		fmt.Fprintf(&b, "- %s\n", message)
	} else {
		for _, f := range files {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	if req.CommitURL != "" {
		fmt.Fprintf(&b, "\nCommit: %s\n", req.CommitURL)
	} else if req.CommitSHA != "" {
		fmt.Fprintf(&b, "\nCommit: %s\n", req.CommitSHA)
	}

	fmt.Fprintf(&b, "\nSummary: %s", message)

	return b.String()
}
