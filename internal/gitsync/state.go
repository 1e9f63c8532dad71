package gitsync

import "fmt"

// Kind classifies the outcome of a reconcile run.
type Kind string

const (
	// KindUpToDate indicates the branch has no local commits missing from upstream
	KindUpToDate Kind = "up-to-date"
	// KindSynced indicates upstream changes were integrated via rebase
	KindSynced Kind = "synced"
	// KindConflictDetected indicates the rebase stopped on unmerged files (fatal)
	KindConflictDetected Kind = "conflict"
	// KindAutostashFailed indicates reapplying stashed work conflicted (fatal)
	KindAutostashFailed Kind = "autostash-failed"
	// KindSkipped indicates reconciliation was not applicable (non-fatal)
	KindSkipped Kind = "skipped"
)

// Result is the outcome of Coordinator.Reconcile.
type Result struct {
	Kind   Kind
	Synced int      // local commits replayed, for KindSynced
	Files  []string // unmerged files, for KindConflictDetected
	Reason string   // skip reason or non-fatal warning
}

// Fatal reports whether the outcome halts the rest of the pipeline.
func (r *Result) Fatal() bool {
	return r.Kind == KindConflictDetected || r.Kind == KindAutostashFailed
}

func (r *Result) String() string {
	switch r.Kind {
	case KindUpToDate:
		return "branch is up to date with upstream"
	case KindSynced:
		if r.Reason != "" {
			return fmt.Sprintf("synced %d commit(s) (%s)", r.Synced, r.Reason)
		}
		return fmt.Sprintf("synced %d commit(s)", r.Synced)
	case KindConflictDetected:
		return fmt.Sprintf("rebase conflicts in %d file(s)", len(r.Files))
	case KindAutostashFailed:
		return "autostash reapply conflicted; changes preserved in stash"
	case KindSkipped:
		return fmt.Sprintf("skipped: %s", r.Reason)
	}
	return string(r.Kind)
}

// RemoteSyncState captures the branch/upstream relationship observed during a
// single reconcile run. It is discarded afterwards.
type RemoteSyncState struct {
	Branch              string
	Upstream            string
	Ahead               int // local commits not yet in upstream
	Behind              int // upstream commits not yet local
	Conflicted          bool
	AutostashInProgress bool
}
