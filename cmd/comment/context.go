package comment

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/alan/jira-sync/internal/github"
)

// maxDiffBytes caps the patch text handed to the generators. Large diffs blow
// the provider token budgets without improving the output.
const maxDiffBytes = 12000

// commitContext is everything gathered about HEAD before generation.
type commitContext struct {
	SHA          string
	Branch       string
	Message      string
	Diff         string
	FilesChanged []string
	CommitURL    string
}

// gatherCommitContext collects the local commit details from git.
func gatherCommitContext(branch string) (*commitContext, error) {
	sha, err := gitOutput("rev-parse", "HEAD")
	if err != nil {
		return nil, err
	}

	message, err := gitOutput("log", "-1", "--pretty=%B")
	if err != nil {
		return nil, err
	}

	cc := &commitContext{
		SHA:     sha,
		Branch:  branch,
		Message: message,
	}

	if stat, err := gitOutput("show", "--stat", "--patch", "HEAD"); err == nil {
		cc.Diff = truncate(stat, maxDiffBytes)
	}

	if files, err := gitOutput("diff-tree", "--no-commit-id", "--name-only", "-r", "HEAD"); err == nil {
		for _, line := range strings.Split(files, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				cc.FilesChanged = append(cc.FilesChanged, line)
			}
		}
	}

	return cc, nil
}

// enrichFromGitHub fills the commit URL (and the file list, when git gave us
// none) from the GitHub API. Best-effort: requires GITHUB_TOKEN and a
// github.com remote, and any failure leaves the context unchanged.
func enrichFromGitHub(ctx context.Context, remote string, cc *commitContext) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		slog.Debug("GITHUB_TOKEN not set, skipping commit enrichment")
		return
	}

	remoteURL, err := gitOutput("remote", "get-url", remote)
	if err != nil {
		return
	}

	org, repo, ok := github.ParseRemote(remoteURL)
	if !ok {
		slog.Debug("Remote is not a GitHub repository, skipping enrichment", "remote", remote)
		return
	}

	client := github.NewClient(ctx, token, org, repo)
	info, err := client.GetCommit(ctx, cc.SHA)
	if err != nil {
		slog.Warn("Commit enrichment failed, continuing without commit URL", "error", err)
		return
	}

	cc.CommitURL = info.HTMLURL
	if len(cc.FilesChanged) == 0 {
		cc.FilesChanged = info.Files
	}
}

func gitOutput(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n... (truncated)"
}
