package gitsync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResp struct {
	out string
	err error
}

// fakeGit scripts git invocations by their joined argument string. Repeated
// calls to the same command pop queued responses; the last one sticks.
type fakeGit struct {
	responses map[string][]fakeResp
	calls     []string
	markers   map[string]bool
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		responses: make(map[string][]fakeResp),
		markers:   make(map[string]bool),
	}
}

func (f *fakeGit) on(cmd, out string) *fakeGit {
	f.responses[cmd] = append(f.responses[cmd], fakeResp{out: out})
	return f
}

func (f *fakeGit) onErr(cmd, out string) *fakeGit {
	f.responses[cmd] = append(f.responses[cmd], fakeResp{out: out, err: errors.New("exit status 1")})
	return f
}

func (f *fakeGit) run(_ context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)

	queue, ok := f.responses[key]
	if !ok || len(queue) == 0 {
		return "", errors.New("unscripted git command: " + key)
	}

	resp := queue[0]
	if len(queue) > 1 {
		f.responses[key] = queue[1:]
	}
	return resp.out, resp.err
}

func (f *fakeGit) stat(path string) bool {
	return f.markers[path]
}

func (f *fakeGit) called(cmd string) bool {
	for _, c := range f.calls {
		if c == cmd {
			return true
		}
	}
	return false
}

// scriptHappyPath wires the commands every reconcile run issues up to the
// integration step: one remote, a fetch, an upstream, and commit counts.
func scriptHappyPath(f *fakeGit, ahead, behind string) {
	f.on("remote", "origin\n")
	f.on("fetch origin feature", "")
	f.on("rev-parse --abbrev-ref --symbolic-full-name feature@{upstream}", "origin/feature\n")
	f.on("rev-list --count origin/feature..feature", ahead)
	f.on("rev-list --count feature..origin/feature", behind)
	f.on("log --oneline -n 5 origin/feature..feature", "abc1234 fix auth token refresh\n")
	f.on("diff --name-status origin/feature...feature", "M\tinternal/auth/session.go\n")
	f.on("status --porcelain", "")
	f.on("rev-parse --git-path rebase-merge", ".git/rebase-merge\n")
	f.on("rev-parse --git-path rebase-apply", ".git/rebase-apply\n")
}

func TestReconcileNoRemote(t *testing.T) {
	git := newFakeGit()
	git.on("remote", "\n")

	c := NewCoordinatorWithRunner("", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindSkipped, result.Kind)
	assert.Equal(t, "no remote configured", result.Reason)
	assert.False(t, result.Fatal())
}

func TestReconcileNoUpstream(t *testing.T) {
	git := newFakeGit()
	git.on("remote", "origin\n")
	git.on("fetch origin feature", "")
	git.onErr("rev-parse --abbrev-ref --symbolic-full-name feature@{upstream}", "fatal: no upstream configured for branch 'feature'")

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindSkipped, result.Kind)
	assert.Equal(t, "no upstream configured", result.Reason)
}

func TestReconcileUpToDateNeverRebases(t *testing.T) {
	git := newFakeGit()
	git.on("remote", "origin\n")
	git.on("fetch origin feature", "")
	git.on("rev-parse --abbrev-ref --symbolic-full-name feature@{upstream}", "origin/feature\n")
	git.on("rev-list --count origin/feature..feature", "0\n")
	git.on("rev-list --count feature..origin/feature", "0\n")

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindUpToDate, result.Kind)
	assert.False(t, git.called("pull --rebase --autostash origin feature"))
}

func TestReconcileSynced(t *testing.T) {
	git := newFakeGit()
	scriptHappyPath(git, "2\n", "1\n")
	git.on("pull --rebase --autostash origin feature", "Successfully rebased and updated refs/heads/feature.\n")
	// Post-integration ahead recount: fully reconciled
	git.on("rev-list --count origin/feature..feature", "0\n")

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindSynced, result.Kind)
	assert.Equal(t, 2, result.Synced)
	assert.Empty(t, result.Reason)
}

func TestReconcileSyncedStillAhead(t *testing.T) {
	git := newFakeGit()
	scriptHappyPath(git, "3\n", "2\n")
	git.on("pull --rebase --autostash origin feature", "Successfully rebased and updated refs/heads/feature.\n")
	git.on("rev-list --count origin/feature..feature", "3\n")

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindSynced, result.Kind)
	assert.Equal(t, 3, result.Synced)
	assert.Contains(t, result.Reason, "not yet pushed")
}

func TestReconcileUncommittedChangesBlock(t *testing.T) {
	git := newFakeGit()
	scriptHappyPath(git, "1\n", "1\n")
	git.onErr("pull --rebase --autostash origin feature",
		"error: cannot pull with rebase: You have unstaged changes.\nPlease commit or stash them.\n")

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindSkipped, result.Kind)
	assert.Equal(t, "uncommitted changes block rebase", result.Reason)
	assert.False(t, result.Fatal())
}

func TestReconcileAutostashFailed(t *testing.T) {
	git := newFakeGit()
	scriptHappyPath(git, "1\n", "2\n")
	git.onErr("pull --rebase --autostash origin feature",
		"Applying autostash resulted in conflicts.\nYour changes are safe in the stash.\n")

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindAutostashFailed, result.Kind)
	assert.True(t, result.Fatal())
}

func TestReconcileConflictDetected(t *testing.T) {
	git := newFakeGit()
	scriptHappyPath(git, "2\n", "3\n")
	git.onErr("pull --rebase --autostash origin feature",
		"CONFLICT (content): Merge conflict in internal/auth/session.go\nerror: could not apply abc1234\n")
	git.on("diff --name-only --diff-filter=U", "internal/auth/session.go\ninternal/auth/token.go\n")
	git.markers[".git/rebase-merge"] = true

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindConflictDetected, result.Kind)
	assert.True(t, result.Fatal())
	assert.Equal(t, []string{"internal/auth/session.go", "internal/auth/token.go"}, result.Files)
}

// The uncommitted-changes classification outranks the autostash check when
// both phrases appear in the output.
func TestClassificationOrder(t *testing.T) {
	git := newFakeGit()
	scriptHappyPath(git, "1\n", "1\n")
	git.onErr("pull --rebase --autostash origin feature",
		"Please commit or stash them.\nApplying autostash resulted in conflicts.\n")

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindSkipped, result.Kind)
}

func TestReconcileNotAGitRepository(t *testing.T) {
	git := newFakeGit()
	scriptHappyPath(git, "1\n", "0\n")
	git.onErr("pull --rebase --autostash origin feature",
		"fatal: not a git repository (or any of the parent directories): .git\n")

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindSkipped, result.Kind)
	assert.Equal(t, "not a git repository", result.Reason)
}

func TestResolveRemoteFallback(t *testing.T) {
	git := newFakeGit()
	git.on("remote", "upstream\nfork\n")
	git.on("fetch upstream feature", "")
	git.onErr("rev-parse --abbrev-ref --symbolic-full-name feature@{upstream}", "fatal: no upstream")

	// Configured remote "origin" does not exist; first listed remote wins
	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindSkipped, result.Kind)
	assert.True(t, git.called("fetch upstream feature"))
}

func TestFetchFallsBackToFullFetch(t *testing.T) {
	git := newFakeGit()
	git.on("remote", "origin\n")
	git.onErr("fetch origin feature", "fatal: couldn't find remote ref feature")
	git.on("fetch origin", "")
	git.onErr("rev-parse --abbrev-ref --symbolic-full-name feature@{upstream}", "fatal: no upstream")

	c := NewCoordinatorWithRunner("origin", git.run, git.stat)
	result, err := c.Reconcile(context.Background(), "feature")

	require.NoError(t, err)
	assert.Equal(t, KindSkipped, result.Kind)
	assert.True(t, git.called("fetch origin"))
}
