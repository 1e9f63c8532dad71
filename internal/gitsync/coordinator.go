// Package gitsync reconciles the current branch with its upstream before the
// rest of the update pipeline runs. Integration uses rebase with autostash so
// uncommitted work survives the pull; the outcome classification decides
// whether the pipeline may continue.
package gitsync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Runner executes a git subcommand and returns its combined output.
type Runner func(ctx context.Context, args ...string) (string, error)

// Coordinator reconciles a local branch with its remote counterpart.
type Coordinator struct {
	remote string
	run    Runner
	stat   func(path string) bool
}

// NewCoordinator returns a coordinator preferring the given remote name.
// An empty remote falls back to the repository's sole configured remote.
func NewCoordinator(remote string) *Coordinator {
	return &Coordinator{
		remote: remote,
		run:    gitRunner,
		stat:   pathExists,
	}
}

// NewCoordinatorWithRunner is the test constructor: git calls and filesystem
// probes go through the given functions.
func NewCoordinatorWithRunner(remote string, run Runner, stat func(string) bool) *Coordinator {
	return &Coordinator{remote: remote, run: run, stat: stat}
}

func gitRunner(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Reconcile brings branch up to date with its upstream. The returned Result
// is always non-nil unless an unexpected git failure occurred.
func (c *Coordinator) Reconcile(ctx context.Context, branch string) (*Result, error) {
	remote, err := c.resolveRemote(ctx)
	if err != nil {
		return nil, err
	}
	if remote == "" {
		return &Result{Kind: KindSkipped, Reason: "no remote configured"}, nil
	}

	c.fetch(ctx, remote, branch)

	upstream, ok := c.upstreamRef(ctx, branch)
	if !ok {
		return &Result{Kind: KindSkipped, Reason: "no upstream configured"}, nil
	}

	state, err := c.observeState(ctx, branch, upstream)
	if err != nil {
		return nil, err
	}

	if state.Ahead == 0 {
		slog.Info("Branch is up to date with upstream", "branch", branch, "upstream", upstream)
		return &Result{Kind: KindUpToDate}, nil
	}

	c.printPreview(ctx, branch, upstream, state)

	out, runErr := c.run(ctx, "pull", "--rebase", "--autostash", remote, branch)
	return c.classify(ctx, branch, upstream, state, out, runErr)
}

// resolveRemote picks the remote to sync against. A configured name that no
// longer exists falls back to the first listed remote with a warning.
func (c *Coordinator) resolveRemote(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "remote")
	if err != nil {
		return "", fmt.Errorf("failed to list remotes: %w", err)
	}

	remotes := splitLines(out)
	if len(remotes) == 0 {
		return "", nil
	}

	if c.remote == "" {
		return remotes[0], nil
	}

	for _, r := range remotes {
		if r == c.remote {
			return r, nil
		}
	}

	slog.Warn("Configured remote not found, falling back", "configured", c.remote, "using", remotes[0])
	return remotes[0], nil
}

// fetch updates remote tracking refs. A failed branch fetch degrades to a
// full fetch; neither failure is fatal.
func (c *Coordinator) fetch(ctx context.Context, remote, branch string) {
	slog.Info("Fetching branch from remote", "remote", remote, "branch", branch)
	if _, err := c.run(ctx, "fetch", remote, branch); err == nil {
		return
	}

	slog.Warn("Branch fetch failed, trying full fetch", "remote", remote, "branch", branch)
	if _, err := c.run(ctx, "fetch", remote); err != nil {
		slog.Warn("Full fetch failed, continuing with stale tracking refs", "remote", remote, "error", err)
	}
}

func (c *Coordinator) upstreamRef(ctx context.Context, branch string) (string, bool) {
	out, err := c.run(ctx, "rev-parse", "--abbrev-ref", "--symbolic-full-name", branch+"@{upstream}")
	if err != nil {
		return "", false
	}
	upstream := strings.TrimSpace(out)
	return upstream, upstream != ""
}

func (c *Coordinator) observeState(ctx context.Context, branch, upstream string) (*RemoteSyncState, error) {
	ahead, err := c.revCount(ctx, upstream+".."+branch)
	if err != nil {
		return nil, fmt.Errorf("failed to count local commits: %w", err)
	}

	behind, err := c.revCount(ctx, branch+".."+upstream)
	if err != nil {
		return nil, fmt.Errorf("failed to count upstream commits: %w", err)
	}

	return &RemoteSyncState{
		Branch:   branch,
		Upstream: upstream,
		Ahead:    ahead,
		Behind:   behind,
	}, nil
}

func (c *Coordinator) revCount(ctx context.Context, rang string) (int, error) {
	out, err := c.run(ctx, "rev-list", "--count", rang)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

// printPreview shows what the rebase is about to replay. Uncommitted changes
// are reported but not acted on here; the autostash handles them.
func (c *Coordinator) printPreview(ctx context.Context, branch, upstream string, state *RemoteSyncState) {
	fmt.Printf("🔄 Syncing %s with %s (%d ahead, %d behind)\n", branch, upstream, state.Ahead, state.Behind)

	if log, err := c.run(ctx, "log", "--oneline", "-n", "5", upstream+".."+branch); err == nil {
		for _, line := range splitLines(log) {
			fmt.Printf("   %s\n", line)
		}
	}

	if files, err := c.run(ctx, "diff", "--name-status", upstream+"..."+branch); err == nil {
		for _, line := range splitLines(files) {
			fmt.Printf("   %s\n", line)
		}
	}

	if status, err := c.run(ctx, "status", "--porcelain"); err == nil && strings.TrimSpace(status) != "" {
		slog.Info("Uncommitted changes present, autostash will carry them through the rebase")
	}
}

// classify maps the pull --rebase outcome to a Result. Checks run strictly in
// order: configuration mismatch, uncommitted-changes block, autostash reapply
// conflict, in-progress rebase with unmerged files, then success.
func (c *Coordinator) classify(ctx context.Context, branch, upstream string, state *RemoteSyncState, out string, runErr error) (*Result, error) {
	lower := strings.ToLower(out)

	if strings.Contains(lower, "not a git repository") {
		return &Result{Kind: KindSkipped, Reason: "not a git repository"}, nil
	}

	if strings.Contains(lower, "cannot pull with rebase") ||
		strings.Contains(lower, "please commit or stash them") {
		slog.Warn("Uncommitted changes block the rebase, sync skipped", "branch", branch)
		return &Result{Kind: KindSkipped, Reason: "uncommitted changes block rebase"}, nil
	}

	if strings.Contains(lower, "applying autostash resulted in conflicts") {
		state.AutostashInProgress = true
		slog.Error("Autostash reapply conflicted, local changes remain stashed", "branch", branch)
		return &Result{Kind: KindAutostashFailed}, nil
	}

	if c.rebaseInProgress(ctx) {
		state.Conflicted = true
		files := c.conflictedFiles(ctx)
		slog.Error("Rebase stopped on conflicts", "branch", branch, "files", files)
		return &Result{Kind: KindConflictDetected, Files: files}, nil
	}

	if runErr != nil {
		return nil, fmt.Errorf("failed to integrate upstream changes: %w (%s)", runErr, strings.TrimSpace(out))
	}

	result := &Result{Kind: KindSynced, Synced: state.Ahead}
	if ahead, err := c.revCount(ctx, upstream+".."+branch); err == nil && ahead > 0 {
		slog.Warn("Branch still ahead of upstream after sync, push pending", "branch", branch, "ahead", ahead)
		result.Reason = fmt.Sprintf("%d commit(s) not yet pushed", ahead)
	}

	slog.Info("Sync complete", "branch", branch, "commits", state.Ahead)
	return result, nil
}

// rebaseInProgress checks the on-disk rebase state markers. git rev-parse
// resolves the paths so worktrees and non-standard git dirs behave.
func (c *Coordinator) rebaseInProgress(ctx context.Context) bool {
	for _, marker := range []string{"rebase-merge", "rebase-apply"} {
		out, err := c.run(ctx, "rev-parse", "--git-path", marker)
		if err != nil {
			continue
		}
		if c.stat(strings.TrimSpace(out)) {
			return true
		}
	}
	return false
}

func (c *Coordinator) conflictedFiles(ctx context.Context) []string {
	out, err := c.run(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil
	}
	return splitLines(out)
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
