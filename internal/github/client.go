// Package github enriches local commit context with data from the GitHub
// API: the commit's web URL and the list of files it touched. Enrichment is
// best-effort; the pipeline runs without it when no token is configured or
// the remote is not a GitHub repository.
package github

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API client for one org/repo.
type Client struct {
	client *github.Client
	org    string
	repo   string
}

// CommitInfo is the enrichment fetched for one commit.
type CommitInfo struct {
	SHA     string
	HTMLURL string
	Files   []string
}

// NewClient creates a client with token authentication.
func NewClient(ctx context.Context, token, org, repo string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		org:    org,
		repo:   repo,
	}
}

// remotePatterns match the org/repo portion of GitHub remote URLs, both
// git@github.com:org/repo.git and https://github.com/org/repo forms.
var remotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git@github\.com:([^/]+)/(.+?)(\.git)?$`),
	regexp.MustCompile(`^https?://github\.com/([^/]+)/(.+?)(\.git)?$`),
	regexp.MustCompile(`^ssh://git@github\.com/([^/]+)/(.+?)(\.git)?$`),
}

// ParseRemote extracts org and repo from a git remote URL. Returns false for
// remotes that do not point at github.com.
func ParseRemote(remoteURL string) (org, repo string, ok bool) {
	trimmed := strings.TrimSpace(remoteURL)
	for _, pattern := range remotePatterns {
		if m := pattern.FindStringSubmatch(trimmed); m != nil {
			return m[1], m[2], true
		}
	}
	return "", "", false
}

// GetCommit fetches the commit's web URL and changed files.
func (c *Client) GetCommit(ctx context.Context, sha string) (*CommitInfo, error) {
	commit, _, err := c.client.Repositories.GetCommit(ctx, c.org, c.repo, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commit %s: %w", sha, err)
	}

	info := &CommitInfo{
		SHA:     commit.GetSHA(),
		HTMLURL: commit.GetHTMLURL(),
	}
	for _, file := range commit.Files {
		info.Files = append(info.Files, file.GetFilename())
	}
	return info, nil
}
